package upload

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
)

type part struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func newUploadRequest(t *testing.T, parts ...part) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, p := range parts {
		if p.filename == "" {
			if err := mw.WriteField(p.field, string(p.data)); err != nil {
				t.Fatal(err)
			}
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.field, p.filename))
		h.Set("Content-Type", p.contentType)
		w, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(p.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// serve runs the request through Single and reports what the next handler
// saw and which error, if any, was raised.
func serve(req *http.Request) (*httptest.ResponseRecorder, *File, bool, error) {
	var (
		got       *File
		nextCalls bool
		gotErr    error
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalls = true
		got, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	onError := func(w http.ResponseWriter, r *http.Request, err error) {
		gotErr = err
		defaultErrorHandler(w, r, err)
	}

	rec := httptest.NewRecorder()
	Single("image", DefaultConfig, WithErrorHandler(onError))(next).ServeHTTP(rec, req)
	return rec, got, nextCalls, gotErr
}

func TestSingleAcceptsAllowedTypes(t *testing.T) {
	for _, contentType := range []string{"image/jpeg", "image/jpg", "image/png", "image/webp"} {
		t.Run(contentType, func(t *testing.T) {
			data := []byte("fake image bytes")
			req := newUploadRequest(t, part{field: "image", filename: "cat.img", contentType: contentType, data: data})

			rec, file, called, err := serve(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !called || rec.Code != http.StatusOK {
				t.Fatalf("next not called, status %d", rec.Code)
			}
			if file == nil {
				t.Fatal("no file attached")
			}
			if file.FieldName != "image" || file.OriginalName != "cat.img" || file.MimeType != contentType {
				t.Errorf("unexpected metadata: %+v", file)
			}
			if file.Size != int64(len(data)) || !bytes.Equal(file.Buffer, data) {
				t.Errorf("buffer mismatch: size %d", file.Size)
			}
		})
	}
}

func TestSingleRejections(t *testing.T) {
	small := []byte("png")
	tests := []struct {
		name           string
		parts          []part
		expectedErr    error
		expectedStatus int
	}{
		{
			name:           "GIF is not allowed",
			parts:          []part{{field: "image", filename: "a.gif", contentType: "image/gif", data: small}},
			expectedErr:    ErrInvalidFileType,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "PDF is not allowed",
			parts:          []part{{field: "image", filename: "a.pdf", contentType: "application/pdf", data: small}},
			expectedErr:    ErrInvalidFileType,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing content type",
			parts:          []part{{field: "image", filename: "a.png", contentType: "", data: small}},
			expectedErr:    ErrInvalidFileType,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "One byte over the limit",
			parts:          []part{{field: "image", filename: "big.png", contentType: "image/png", data: make([]byte, 5*1024*1024+1)}},
			expectedErr:    ErrFileTooLarge,
			expectedStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name: "Second file in the same field",
			parts: []part{
				{field: "image", filename: "a.png", contentType: "image/png", data: small},
				{field: "image", filename: "b.png", contentType: "image/png", data: small},
			},
			expectedErr:    ErrTooManyFiles,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "File in another field",
			parts:          []part{{field: "avatar", filename: "a.png", contentType: "image/png", data: small}},
			expectedErr:    ErrUnexpectedFile,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, file, called, err := serve(newUploadRequest(t, tt.parts...))

			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("error = %v, expected %v", err, tt.expectedErr)
			}
			if called || file != nil {
				t.Error("next handler must not run on rejection")
			}
			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, expected %d", rec.Code, tt.expectedStatus)
			}
		})
	}
}

func TestSingleAcceptsExactLimit(t *testing.T) {
	data := make([]byte, 5*1024*1024)
	req := newUploadRequest(t, part{field: "image", filename: "max.webp", contentType: "image/webp", data: data})

	_, file, called, err := serve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called || file == nil || file.Size != int64(len(data)) {
		t.Fatalf("file at exactly the limit should be accepted")
	}
}

func TestSingleSkipsFormValues(t *testing.T) {
	req := newUploadRequest(t,
		part{field: "caption", data: []byte("hello")},
		part{field: "image", filename: "a.jpg", contentType: "image/jpeg", data: []byte("jpg")},
	)

	_, file, called, err := serve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called || file == nil || file.OriginalName != "a.jpg" {
		t.Fatalf("expected a.jpg to be attached, got %+v", file)
	}
}

func TestSingleWithoutFile(t *testing.T) {
	tests := []struct {
		name string
		req  *http.Request
	}{
		{
			name: "JSON body",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{}`))
				r.Header.Set("Content-Type", "application/json")
				return r
			}(),
		},
		{
			name: "Multipart with only form values",
			req:  newUploadRequest(t, part{field: "caption", data: []byte("hello")}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, file, called, err := serve(tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !called {
				t.Fatal("next handler should run")
			}
			if file != nil {
				t.Errorf("no file expected, got %+v", file)
			}
		})
	}
}

func TestSingleMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("garbage"))
	req.Header.Set("Content-Type", "multipart/form-data")

	rec, _, called, err := serve(req)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if called || rec.Code != http.StatusBadRequest {
		t.Errorf("called=%v status=%d", called, rec.Code)
	}
}

func TestErrorMessages(t *testing.T) {
	err := &Error{Code: CodeFileSize, Field: "image"}
	if err.Error() != "file too large: image" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if ErrInvalidFileType.Error() != "invalid file type" {
		t.Errorf("unexpected message %q", ErrInvalidFileType.Error())
	}
}

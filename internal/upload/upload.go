// Package upload buffers a single multipart image upload in memory and
// validates it before the route handler runs.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

type Config struct {
	AllowedTypes []string
	MaxFileSize  int64
	MaxFiles     int
}

var DefaultConfig = Config{
	AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png", "image/webp"},
	MaxFileSize:  5 * 1024 * 1024,
	MaxFiles:     1,
}

func (c Config) allows(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, t := range c.AllowedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// File is an accepted upload. It lives only for the request.
type File struct {
	FieldName    string
	OriginalName string
	MimeType     string
	Size         int64
	Buffer       []byte
}

type contextKey struct{}

func ContextWithFile(ctx context.Context, f *File) context.Context {
	return context.WithValue(ctx, contextKey{}, f)
}

// FromContext returns the file attached by Single, if any.
func FromContext(ctx context.Context) (*File, bool) {
	f, ok := ctx.Value(contextKey{}).(*File)
	return f, ok && f != nil
}

type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type Option func(*middleware)

func WithErrorHandler(h ErrorHandler) Option {
	return func(m *middleware) {
		m.onError = h
	}
}

type middleware struct {
	field   string
	cfg     Config
	onError ErrorHandler
}

// Single accepts one file from the named form field. Requests that are not
// multipart pass through without a file.
func Single(field string, cfg Config, opts ...Option) func(http.Handler) http.Handler {
	m := &middleware{field: field, cfg: cfg, onError: defaultErrorHandler}
	for _, opt := range opts {
		opt(m)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			file, err := m.read(r)
			if errors.Is(err, http.ErrNotMultipart) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				m.onError(w, r, err)
				return
			}
			if file == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithFile(r.Context(), file)))
		})
	}
}

func (m *middleware) read(r *http.Request) (*File, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var file *File
	count := 0
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		// Plain form values are not kept.
		if part.FileName() == "" {
			part.Close()
			continue
		}

		name := part.FormName()
		if name != m.field {
			return nil, &Error{Code: CodeUnexpectedFile, Field: name}
		}
		count++
		if count > m.cfg.MaxFiles {
			return nil, &Error{Code: CodeFileCount, Field: name}
		}

		mimeType := part.Header.Get("Content-Type")
		if !m.cfg.allows(mimeType) {
			return nil, ErrInvalidFileType
		}

		buf, err := io.ReadAll(io.LimitReader(part, m.cfg.MaxFileSize+1))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if int64(len(buf)) > m.cfg.MaxFileSize {
			return nil, &Error{Code: CodeFileSize, Field: name}
		}

		file = &File{
			FieldName:    name,
			OriginalName: part.FileName(),
			MimeType:     mimeType,
			Size:         int64(len(buf)),
			Buffer:       buf,
		}
	}
	return file, nil
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	log.Println("Upload rejected:", err)
	http.Error(w, err.Error(), StatusCode(err))
}

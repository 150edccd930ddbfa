package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"docingest-backend/internal/shared/storage/blob"
)

// ErrUnparseable indicates the blob bytes are not a readable PDF.
var ErrUnparseable = errors.New("unparseable pdf")

// Service reads stored blobs and extracts their plain text.
// Library used: github.com/ledongthuc/pdf.
type Service struct {
	Blobs blob.Store
}

// Text opens the named blob and extracts its text. A missing blob surfaces
// blob.ErrNotFound so callers can tell "never stored" apart from a parse
// failure.
func (s *Service) Text(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := s.Blobs.Open(ctx, name)
	if err != nil {
		return "", fmt.Errorf("extract text name=%s: %w", name, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text name=%s: read: %w", name, err)
	}

	text, err := TextFromBytes(raw)
	if err != nil {
		return "", fmt.Errorf("extract text name=%s: %w", name, err)
	}
	return text, nil
}

// TextFromBytes extracts text from an in-memory PDF payload. Per-page text is
// concatenated in page order; the page separator is whatever the reader
// emits, stable for a given input.
func TextFromBytes(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs; a bad upload must
	// surface as ErrUnparseable, not take the process down.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnparseable, rec)
		}
	}()
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return buf.String(), nil
}

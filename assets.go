package contentcal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmptyInput = errors.New("input is empty")
	ErrNotText    = errors.New("input is not text")
)

// maxInputSize caps how much of a file or stream is read.
const maxInputSize = 8 << 20

// Asset is a source of generated calendar text.
type Asset interface {
	Text(ctx context.Context) (string, error)
}

// TextAsset holds text already in memory.
type TextAsset struct {
	Content string
}

// NewTextAsset wraps content.
func NewTextAsset(content string) *TextAsset {
	return &TextAsset{Content: content}
}

// Text implements Asset.
func (t *TextAsset) Text(ctx context.Context) (string, error) {
	if strings.TrimSpace(t.Content) == "" {
		return "", ErrEmptyInput
	}
	return t.Content, nil
}

// FileMetadata describes a file read by a FileAsset.
type FileMetadata struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MIMEType string `json:"mimeType"`
	Checksum string `json:"checksum"` // hex sha256 of the content
}

// FileAsset reads text from a file. Binary files are rejected by content
// sniffing, so a PDF passed by mistake fails with ErrNotText.
type FileAsset struct {
	Path     string
	Metadata *FileMetadata // populated after a successful Text call

	log *slog.Logger
}

// NewFileAsset creates an asset for path.
func NewFileAsset(path string, options ...func(*FileAsset)) *FileAsset {
	f := &FileAsset{Path: path, log: slog.Default()}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// WithAssetLogger sets the logger of a FileAsset.
func WithAssetLogger(l *slog.Logger) func(*FileAsset) {
	return func(f *FileAsset) {
		if l != nil {
			f.log = l
		}
	}
}

// Text implements Asset.
func (f *FileAsset) Text(ctx context.Context) (string, error) {
	if f.Path == "" {
		return "", fmt.Errorf("file path is empty")
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := readLimited(ctx, file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	mt, err := sniffText(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.Path, err)
	}

	sum := sha256.Sum256(data)
	f.Metadata = &FileMetadata{
		Path:     f.Path,
		Size:     int64(len(data)),
		MIMEType: mt,
		Checksum: hex.EncodeToString(sum[:]),
	}
	f.log.Debug("read input file", "path", f.Path, "size", len(data), "mime", mt)

	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("%s: %w", f.Path, ErrEmptyInput)
	}
	return string(data), nil
}

// ReaderAsset reads text from a stream such as stdin.
type ReaderAsset struct {
	R io.Reader
}

// NewReaderAsset wraps r.
func NewReaderAsset(r io.Reader) *ReaderAsset {
	return &ReaderAsset{R: r}
}

// Text implements Asset.
func (r *ReaderAsset) Text(ctx context.Context) (string, error) {
	data, err := readLimited(ctx, r.R)
	if err != nil {
		return "", err
	}
	if _, err := sniffText(data); err != nil {
		return "", err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", ErrEmptyInput
	}
	return string(data), nil
}

// JoinText reads every asset and joins the results with blank lines.
func JoinText(ctx context.Context, assets ...Asset) (string, error) {
	if len(assets) == 0 {
		return "", ErrEmptyInput
	}
	texts := make([]string, 0, len(assets))
	for i, a := range assets {
		text, err := a.Text(ctx)
		if err != nil {
			return "", fmt.Errorf("asset %d: %w", i, err)
		}
		texts = append(texts, strings.TrimSpace(text))
	}
	return strings.Join(texts, "\n\n"), nil
}

func readLimited(ctx context.Context, r io.Reader) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(r, maxInputSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxInputSize {
		return nil, fmt.Errorf("input exceeds %d bytes", maxInputSize)
	}
	return data, nil
}

// sniffText accepts anything mimetype places under text/plain, which
// includes JSON, CSV and HTML.
func sniffText(data []byte) (string, error) {
	if len(data) == 0 {
		return "text/plain", nil
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return mt.String(), nil
		}
	}
	return "", fmt.Errorf("%w: detected %s", ErrNotText, mt.String())
}

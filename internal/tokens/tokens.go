// Package tokens counts model tokens in rendered documents.
package tokens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "cl100k_base"

// ErrUnknownEncoding is returned for encodings outside ValidEncodings.
var ErrUnknownEncoding = errors.New("tokens: unknown encoding")

// ValidEncodings lists the supported encodings.
var ValidEncodings = []string{"cl100k_base", "p50k_base", "p50k_edit", "r50k_base"}

func init() {
	// BPE ranks ship with the binary; counting never touches the network.
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// ValidateEncoding reports ErrUnknownEncoding for unsupported names.
func ValidateEncoding(name string) error {
	for _, e := range ValidEncodings {
		if e == name {
			return nil
		}
	}
	return fmt.Errorf("%w %q (valid: %s)", ErrUnknownEncoding, name, strings.Join(ValidEncodings, ", "))
}

// Counter counts tokens with one encoding.
type Counter struct {
	name string
	enc  *tiktoken.Tiktoken
}

// NewCounter builds a counter for the named encoding; "" selects
// DefaultEncoding.
func NewCounter(encoding string) (*Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	if err := ValidateEncoding(encoding); err != nil {
		return nil, err
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("tokens: load encoding %s: %w", encoding, err)
	}
	return &Counter{name: encoding, enc: enc}, nil
}

// Encoding returns the encoding name.
func (c *Counter) Encoding() string {
	return c.name
}

// Count returns the number of tokens in text. Special tokens are counted as
// plain text.
func (c *Counter) Count(text string) int {
	return len(c.enc.EncodeOrdinary(text))
}

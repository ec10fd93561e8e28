package walker

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/bethropolis/code-prompt/internal/utils"
)

// BinaryProbeSize is how many leading bytes are inspected for a NUL byte.
const BinaryProbeSize = 1024

// IsBinary reports whether the first BinaryProbeSize bytes of the file
// contain a NUL byte. Files that cannot be read are reported through log
// and treated as text, so the later read surfaces the real error.
func IsBinary(path string, log utils.Logger) bool {
	log = utils.OrNoop(log)

	f, err := os.Open(path)
	if err != nil {
		log.Error("Binary check: the file at %s could not be opened: %v", path, err)
		return false
	}
	defer f.Close()

	buf := make([]byte, BinaryProbeSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		log.Error("Binary check: the file at %s could not be read: %v", path, err)
		return false
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}

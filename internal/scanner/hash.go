package scanner

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// hashSampleSize bounds how much of a file the hash reads. The first
// 1 MiB plus the total size is enough to detect re-encodes and
// replacements without grinding through multi-gigabyte files.
const hashSampleSize = 1024 * 1024

// FileHash returns a change-detection hash: xxhash64 over the first
// 1 MiB of content with the file size mixed in.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	h := xxhash.New()
	if _, err := io.Copy(h, io.LimitReader(f, hashSampleSize)); err != nil {
		return "", err
	}

	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(stat.Size()))
	h.Write(sizeBuf[:])

	return fmt.Sprintf("%016x", h.Sum64()), nil
}

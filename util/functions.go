package util

import (
	"io"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/twmb/murmur3"
)

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func Min(a, b int) int {
	if a > b {
		return b
	}
	return a
}

// HashStrings hashes the concatenation of parts, with a zero byte between
// consecutive parts so that ("ab","c") and ("a","bc") differ.
func HashStrings(parts ...string) uint64 {
	hash := murmur3.New64()
	for i, part := range parts {
		if i > 0 {
			_, _ = hash.Write([]byte{0})
		}
		_, _ = hash.Write([]byte(part))
	}
	return hash.Sum64()
}

// HashFile fingerprints a model or corpus file for logging.
func HashFile(fileName string) (uint64, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	hash := murmur3.New64()
	if _, err := io.Copy(hash, file); err != nil {
		return 0, err
	}
	return hash.Sum64(), nil
}

func LogMemory(log zerolog.Logger) {
	s := &runtime.MemStats{}
	runtime.ReadMemStats(s)
	log.Debug().
		Str("alloc", humanize.IBytes(s.Alloc)).
		Str("heap_alloc", humanize.IBytes(s.HeapAlloc)).
		Str("heap_released", humanize.IBytes(s.HeapReleased)).
		Uint64("heap_objects", s.HeapObjects).
		Uint64("mallocs", s.Mallocs).
		Uint64("frees", s.Frees).
		Msg("Memory info")
}

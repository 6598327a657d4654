package service

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"

	"github.com/ludo-technologies/qgrade/internal/parser"
)

// fingerprintKey is fixed so fingerprints are comparable across runs
var fingerprintKey = []byte("qgrade-export-fingerprint-key-32")

// Fingerprint hashes the raw bytes of every source in order. Sources are
// length-prefixed so moving bytes between files changes the result.
func Fingerprint(sources []parser.Source) (string, error) {
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", err
	}

	var size [8]byte
	for _, source := range sources {
		binary.LittleEndian.PutUint64(size[:], uint64(len(source.Content)))
		if _, err := hash.Write(size[:]); err != nil {
			return "", err
		}
		if _, err := hash.Write(source.Content); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%016x", hash.Sum64()), nil
}

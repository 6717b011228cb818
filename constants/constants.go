package constants

import (
	"os"
	"strconv"
)

func GetOutDir() string {
	path := os.Getenv("OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetConfigPath() string {
	return os.Getenv("GYROTONE_CONFIG")
}

// GetSeed returns the seed from GYROTONE_SEED, if it is set and valid.
func GetSeed() (uint64, bool) {
	raw := os.Getenv("GYROTONE_SEED")
	if raw == "" {
		return 0, false
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return seed, true
}

const DefaultListenAddr = ":8080"

const DefaultSampleRate = 44100

// Tempo written into exported MIDI files. A quarter note is 500ms.
const ExportBPM = 120

// BatchGetItem accepts at most this many keys per request in our usage.
const MaxMetadataBatch = 10

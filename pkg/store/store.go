// Package store persists the metadata of a dataset as encrypted, compressed gob files named
// <dataset>_<artifact>.enc.
package store

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/scrypt"
)

// Artifact names
const (
	ScalingFactors       = "scaling_factors"
	DistinctValues       = "distinct_values"
	ProcessingParameters = "processing_parameters"
)

const Extension = ".enc"

// DefaultPassphrase is the key material every dataprep build shares.
const DefaultPassphrase = "dataprep/metadata: 7c1e0d52-f4c6-4b7e-9a1a-6b3fd9e4a2b0"

var magic = []byte("DPMD")

const (
	formatVersion = 1
	saltSize      = 16
	keySize       = 32
	headerSize    = 4 + 1 + saltSize
)

// scrypt cost parameters
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder: %v", err))
		}
		return encoder
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder: %v", err))
		}
		return decoder
	},
}

// Store reads and writes the metadata artifacts of datasets in a folder.
type Store struct {
	Folder     string
	Passphrase string
}

// New returns a store for folder using the built-in passphrase
func New(folder string) *Store {
	return &Store{Folder: folder, Passphrase: DefaultPassphrase}
}

// FileName returns the path of an artifact of a dataset
func (s *Store) FileName(dataset, artifact string) string {
	return filepath.Join(s.Folder, dataset+"_"+artifact+Extension)
}

// Save encodes value and writes it as artifact of dataset, replacing any previous version.
func (s *Store) Save(dataset, artifact string, value any) error {
	var plain bytes.Buffer
	if err := gob.NewEncoder(&plain).Encode(value); err != nil {
		return fmt.Errorf("error encoding %s: %w", artifact, err)
	}

	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	compressed := encoder.EncodeAll(plain.Bytes(), nil)
	zstdEncoderPool.Put(encoder)

	sealed, err := s.seal(compressed)
	if err != nil {
		return fmt.Errorf("error encrypting %s: %w", artifact, err)
	}

	if err := os.MkdirAll(s.Folder, 0o755); err != nil {
		return fmt.Errorf("error creating metadata folder %s: %w", s.Folder, err)
	}
	return writeAtomic(s.FileName(dataset, artifact), sealed)
}

// Load reads artifact of dataset and decodes it into value, which must be a pointer.
func (s *Store) Load(dataset, artifact string, value any) error {
	fileName := s.FileName(dataset, artifact)
	content, err := os.ReadFile(fileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{File: fileName}
		}
		return fmt.Errorf("error reading %s: %w", fileName, err)
	}

	compressed, err := s.open(fileName, content)
	if err != nil {
		return err
	}

	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	plain, err := decoder.DecodeAll(compressed, nil)
	zstdDecoderPool.Put(decoder)
	if err != nil {
		return &FormatError{File: fileName, Reason: err.Error()}
	}

	if err := gob.NewDecoder(bytes.NewReader(plain)).Decode(value); err != nil {
		return &FormatError{File: fileName, Reason: err.Error()}
	}
	return nil
}

// FindDatasetName infers the dataset name from the single processing parameters file in the
// store folder.
func (s *Store) FindDatasetName() (string, error) {
	suffix := "_" + ProcessingParameters + Extension
	matches, err := filepath.Glob(filepath.Join(s.Folder, "*"+suffix))
	if err != nil {
		return "", fmt.Errorf("error listing %s: %w", s.Folder, err)
	}
	if len(matches) != 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = filepath.Base(m)
		}
		sort.Strings(names)
		return "", &AmbiguousDatasetNameError{Folder: s.Folder, Matches: names}
	}
	return strings.TrimSuffix(filepath.Base(matches[0]), suffix), nil
}

// seal encrypts data with a key derived from the passphrase and a fresh salt. The file header
// is authenticated as additional data.
func (s *Store) seal(data []byte) ([]byte, error) {
	header := make([]byte, headerSize)
	copy(header, magic)
	header[len(magic)] = formatVersion
	salt := header[len(magic)+1:]
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	aead, err := s.newAEAD(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+len(nonce)+len(data)+aead.Overhead())
	out = append(out, header...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, data, header), nil
}

func (s *Store) open(fileName string, content []byte) ([]byte, error) {
	if len(content) < headerSize || !bytes.Equal(content[:len(magic)], magic) {
		return nil, &FormatError{File: fileName, Reason: "missing header"}
	}
	if v := content[len(magic)]; v != formatVersion {
		return nil, &FormatError{File: fileName, Reason: fmt.Sprintf("unsupported version %d", v)}
	}
	header := content[:headerSize]
	aead, err := s.newAEAD(header[len(magic)+1:])
	if err != nil {
		return nil, err
	}
	rest := content[headerSize:]
	if len(rest) < aead.NonceSize()+aead.Overhead() {
		return nil, &FormatError{File: fileName, Reason: "truncated"}
	}
	nonce, sealed := rest[:aead.NonceSize()], rest[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, header)
	if err != nil {
		return nil, &DecryptionError{File: fileName, Err: err}
	}
	return plain, nil
}

func (s *Store) newAEAD(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(s.Passphrase), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("error deriving key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func writeAtomic(fileName string, content []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(fileName), ".dataprep-*")
	if err != nil {
		return fmt.Errorf("error creating metadata file %s: %w", fileName, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("error writing metadata file %s: %w", fileName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("error closing metadata file %s: %w", fileName, err)
	}
	if err = os.Rename(tmp.Name(), fileName); err != nil {
		return fmt.Errorf("error moving metadata file into place %s: %w", fileName, err)
	}
	return nil
}

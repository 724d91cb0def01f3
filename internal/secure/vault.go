// Package secure implements a local encrypted credential vault: the same
// purpose as original_source/tauri-app/src-tauri/src/secure_storage.rs (keep
// a cached LLM API key off disk in plaintext) but not its mechanism — the
// original's XOR-with-hostname cipher is not a sound construction, so this
// uses AES-256-GCM keyed by a scrypt-derived key with a random per-file salt.
package secure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/scrypt"
)

const (
	configFileName = "toneforge_vault.enc"
	magicHeader    = "TFV1"

	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 16
)

// Credentials is the plaintext payload stored in the vault, mirroring
// secure_storage.rs's SecureConfig.
type Credentials struct {
	APIKey             string `json:"api_key,omitempty"`
	Provider           string `json:"provider,omitempty"`
	Model              string `json:"model,omitempty"`
	CustomInstructions string `json:"custom_instructions,omitempty"`
}

// Vault encrypts/decrypts Credentials at a fixed path, deriving a fresh key
// from passphrase + a random salt stored alongside the ciphertext.
type Vault struct {
	path string
}

// NewVault creates a vault rooted at dir (e.g. a user config directory).
func NewVault(dir string) *Vault {
	return &Vault{path: filepath.Join(dir, configFileName)}
}

// Save encrypts creds with a key derived from passphrase and writes it to
// disk, generating a fresh random salt and nonce each call.
func (v *Vault) Save(passphrase string, creds Credentials) error {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("secure: marshal credentials: %w", err)
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("secure: generate salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("secure: generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return fmt.Errorf("secure: create vault dir: %w", err)
	}

	out := make([]byte, 0, len(magicHeader)+len(salt)+len(nonce)+len(ciphertext))
	out = append(out, []byte(magicHeader)...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)

	return os.WriteFile(v.path, out, 0o600)
}

// Load decrypts the vault at its path using passphrase. If no vault file
// exists, it returns an empty Credentials and no error.
func (v *Vault) Load(passphrase string) (Credentials, error) {
	data, err := os.ReadFile(v.path)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("secure: read vault: %w", err)
	}

	if len(data) < len(magicHeader) || string(data[:len(magicHeader)]) != magicHeader {
		return Credentials{}, errors.New("secure: invalid vault file format")
	}
	data = data[len(magicHeader):]

	if len(data) < saltLen {
		return Credentials{}, errors.New("secure: vault file truncated (salt)")
	}
	salt, data := data[:saltLen], data[saltLen:]

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return Credentials{}, err
	}

	if len(data) < gcm.NonceSize() {
		return Credentials{}, errors.New("secure: vault file truncated (nonce)")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Credentials{}, fmt.Errorf("secure: decrypt vault (wrong passphrase?): %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return Credentials{}, fmt.Errorf("secure: parse vault contents: %w", err)
	}
	return creds, nil
}

// Delete removes the vault file if present.
func (v *Vault) Delete() error {
	err := os.Remove(v.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Exists reports whether a vault file is present at the configured path.
func (v *Vault) Exists() bool {
	_, err := os.Stat(v.path)
	return err == nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("secure: derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secure: create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secure: create gcm: %w", err)
	}
	return gcm, nil
}

// MaskAPIKey redacts an API key for display, keeping only a short prefix
// and suffix (mirrors secure_storage.rs's mask_api_key).
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		masked := make([]byte, len(key))
		for i := range masked {
			masked[i] = '*'
		}
		return string(masked)
	}
	return fmt.Sprintf("%s...%s", key[:4], key[len(key)-4:])
}

package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/goccy/go-json"
)

const kmsKeyPrefix = "arn:aws:kms:"

// KMSAPI is the part of the KMS client used for envelope encryption
type KMSAPI interface {
	Encrypt(ctx context.Context, params *kms.EncryptInput, optFns ...func(*kms.Options)) (*kms.EncryptOutput, error)
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// Cipher encrypts secret payloads with AWS KMS when the key is a KMS ARN, and with local
// AES-GCM under a SHA-256 derived key otherwise.
type Cipher struct {
	kmsClient KMSAPI
	kmsKeyID  string
	localKey  []byte
}

type cryptoObj struct {
	EncryptedData string `json:"encrypted_data"`
}

// New picks the mode from key; a KMS ARN loads the default AWS configuration
func New(ctx context.Context, key string) (*Cipher, error) {
	if strings.HasPrefix(key, kmsKeyPrefix) {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return NewKMS(kms.NewFromConfig(cfg), key), nil
	}
	if key == "" {
		return nil, errors.New("encryption key is not set")
	}
	return NewLocal(key), nil
}

func NewKMS(client KMSAPI, keyID string) *Cipher {
	return &Cipher{kmsClient: client, kmsKeyID: keyID}
}

func NewLocal(passphrase string) *Cipher {
	hash := sha256.Sum256([]byte(passphrase))
	return &Cipher{localKey: hash[:]}
}

func (c *Cipher) Decrypt(ctx context.Context, cipherData []byte) ([]byte, error) {
	if c.kmsClient != nil {
		out, err := c.kmsClient.Decrypt(ctx, &kms.DecryptInput{
			CiphertextBlob: cipherData,
			KeyId:          &c.kmsKeyID,
		})
		if err != nil {
			return nil, fmt.Errorf("decryption failed: %w", err)
		}
		return out.Plaintext, nil
	}

	aead, err := c.aead()
	if err != nil {
		return nil, err
	}

	nonceSize := aead.NonceSize()
	if len(cipherData) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := cipherData[:nonceSize], cipherData[nonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

func (c *Cipher) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	if c.kmsClient != nil {
		out, err := c.kmsClient.Encrypt(ctx, &kms.EncryptInput{
			KeyId:     &c.kmsKeyID,
			Plaintext: plaintext,
		})
		if err != nil {
			return nil, fmt.Errorf("encryption failed: %w", err)
		}
		return out.CiphertextBlob, nil
	}

	aead, err := c.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *Cipher) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.localKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// DecryptJSONString opens an {"encrypted_data": "<base64>"} document
func (c *Cipher) DecryptJSONString(ctx context.Context, encryptedObjStr string) ([]byte, error) {
	obj := cryptoObj{}
	if err := json.Unmarshal([]byte(encryptedObjStr), &obj); err != nil {
		return nil, fmt.Errorf("failed to unmarshal encrypted data: %s", err)
	}

	encryptedData, err := base64.StdEncoding.DecodeString(obj.EncryptedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 data: %s", err)
	}

	return c.Decrypt(ctx, encryptedData)
}

// EncryptJSONString seals plaintext into an {"encrypted_data": "<base64>"} document
func (c *Cipher) EncryptJSONString(ctx context.Context, plaintext []byte) (string, error) {
	encrypted, err := c.Encrypt(ctx, plaintext)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(cryptoObj{EncryptedData: base64.StdEncoding.EncodeToString(encrypted)})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

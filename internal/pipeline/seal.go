package pipeline

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	aes_sivpb "github.com/tink-crypto/tink-go/v2/proto/aes_siv_go_proto"
	tinkpb "github.com/tink-crypto/tink-go/v2/proto/tink_go_proto"
	"github.com/tink-crypto/tink-go/v2/tink"
	"google.golang.org/protobuf/proto"

	"github.com/idelchi/gsteg/internal/hill"
)

// SealKeySize is the raw AES-SIV key size for sidecar sealing.
const SealKeySize = 64

// sealContext binds sealed blobs to their purpose.
var sealContext = []byte("gsteg/sidecar/v1")

// Sealer encrypts and decrypts the cipher key material stored in sidecars,
// using deterministic AEAD so sealing the same keys twice is comparable.
type Sealer struct {
	daead tink.DeterministicAEAD
}

// sealedKeys is the cleartext structure inside a sealed blob.
type sealedKeys struct {
	Matrix hill.Matrix `json:"matrix"`
	Key    string      `json:"key"`
}

// NewSealer creates a Sealer from a raw 64-byte AES-SIV key.
func NewSealer(rawKey []byte) (*Sealer, error) {
	if len(rawKey) != SealKeySize {
		return nil, fmt.Errorf("seal key must be %d bytes (%d hex characters)", SealKeySize, 2*SealKeySize)
	}

	handle, err := newDeterministicAEADKeyHandle(rawKey)
	if err != nil {
		return nil, fmt.Errorf("creating keyset handle: %w", err)
	}

	primitive, err := daead.New(handle)
	if err != nil {
		return nil, fmt.Errorf("creating DeterministicAEAD: %w", err)
	}

	return &Sealer{daead: primitive}, nil
}

// Seal encrypts the key matrix and 10-bit key into a base64 blob for the sidecar.
func (s *Sealer) Seal(matrix hill.Matrix, key string) (string, error) {
	plain, err := json.Marshal(sealedKeys{Matrix: matrix, Key: key})
	if err != nil {
		return "", fmt.Errorf("marshaling key material: %w", err)
	}

	sealed, err := s.daead.EncryptDeterministically(plain, sealContext)
	if err != nil {
		return "", fmt.Errorf("sealing key material: %w", err)
	}

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Unseal reverses Seal, recovering the matrix and key from a sidecar blob.
func (s *Sealer) Unseal(blob string) (hill.Matrix, string, error) {
	sealed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return hill.Matrix{}, "", fmt.Errorf("decoding sealed key material: %w", err)
	}

	plain, err := s.daead.DecryptDeterministically(sealed, sealContext)
	if err != nil {
		return hill.Matrix{}, "", fmt.Errorf("unsealing key material: %w", err)
	}

	var keys sealedKeys
	if err := json.Unmarshal(plain, &keys); err != nil {
		return hill.Matrix{}, "", fmt.Errorf("parsing key material: %w", err)
	}

	return keys.Matrix, keys.Key, nil
}

// newDeterministicAEADKeyHandle creates a Tink keyset handle for AES-SIV
// from raw key bytes.
func newDeterministicAEADKeyHandle(key []byte) (*keyset.Handle, error) {
	aesSivKey := &aes_sivpb.AesSivKey{
		Version:  0,
		KeyValue: key,
	}

	serializedKey, err := proto.Marshal(aesSivKey)
	if err != nil {
		return nil, fmt.Errorf("serializing AesSivKey: %w", err)
	}

	keyData := &tinkpb.KeyData{
		TypeUrl:         "type.googleapis.com/google.crypto.tink.AesSivKey",
		Value:           serializedKey,
		KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
	}

	keySet := &tinkpb.Keyset{
		PrimaryKeyId: 1,
		Key: []*tinkpb.Keyset_Key{
			{
				KeyData:          keyData,
				Status:           tinkpb.KeyStatusType_ENABLED,
				KeyId:            1,
				OutputPrefixType: tinkpb.OutputPrefixType_RAW,
			},
		},
	}

	serializedKeyset, err := proto.Marshal(keySet)
	if err != nil {
		return nil, fmt.Errorf("serializing keyset: %w", err)
	}

	handle, err := insecurecleartextkeyset.Read(
		keyset.NewBinaryReader(bytes.NewReader(serializedKeyset)))
	if err != nil {
		return nil, fmt.Errorf("creating keyset handle: %w", err)
	}

	return handle, nil
}

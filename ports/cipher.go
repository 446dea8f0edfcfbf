package ports

// FieldCipher encrypts individual text fields at rest.
//
// Decrypt never fails: input that cannot be decrypted is returned as is,
// because stored data mixes encrypted and plaintext rows.
type FieldCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(value string) string
}

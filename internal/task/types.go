package task

import "fmt"

// Provider identifies the cloud backend a credential belongs to
type Provider string

func (p Provider) String() string { return string(p) }

const (
	ProviderAmazon Provider = "AMAZON"
)

// Attributes holds the provider-specific destination of a backup task
type Attributes struct {
	Bucket string `json:"bucket" validate:"required"`
	Folder string `json:"folder,omitempty"`
	Region string `json:"region,omitempty"`
}

// Task is a backup task: a local path mirrored to a bucket with a given credential
type Task struct {
	ID           int64      `json:"id"`
	Path         string     `json:"path" validate:"required"`
	CredentialID int64      `json:"credential" validate:"required"`
	Schedule     string     `json:"schedule,omitempty"`
	Attributes   Attributes `json:"attributes"`
}

// LockKey returns the serialization domain for jobs running against this task
func (t *Task) LockKey() string { return LockKey(t.ID) }

// LockKey returns "backup:<id>"
func LockKey(id int64) string {
	return fmt.Sprintf("backup:%d", id)
}

// CredentialAttributes holds the secrets of a cloud credential
type CredentialAttributes struct {
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Endpoint  string `json:"endpoint,omitempty"`
}

// Credential is a named cloud credential.
// Never log the attributes; String redacts them.
type Credential struct {
	ID         int64                `json:"id"`
	Name       string               `json:"name"`
	Provider   Provider             `json:"provider" validate:"required"`
	Attributes CredentialAttributes `json:"attributes"`
}

func (c Credential) String() string {
	return fmt.Sprintf("Credential{ID: %d, Name: %q, Provider: %s, Attributes: <redacted>}", c.ID, c.Name, c.Provider)
}

// GoString keeps %#v from leaking secrets as well
func (c Credential) GoString() string { return c.String() }

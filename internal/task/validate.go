package task

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the fields every backup task needs regardless of provider
func (t *Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid task %d: %w", t.ID, err)
	}
	return nil
}

// Validate checks the credential carries a provider discriminator
func (c *Credential) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid credential %d: %w", c.ID, err)
	}
	return nil
}

// RequireKeys checks that a static access key pair is present.
// Providers authenticating with key pairs call it before building a client.
func (c *Credential) RequireKeys() error {
	if err := validate.Var(c.Attributes.AccessKey, "required"); err != nil {
		return fmt.Errorf("credential %d: access_key is required", c.ID)
	}
	if err := validate.Var(c.Attributes.SecretKey, "required"); err != nil {
		return fmt.Errorf("credential %d: secret_key is required", c.ID)
	}
	return nil
}

// CheckPair verifies that cred is the credential t refers to
func CheckPair(t *Task, cred *Credential) error {
	if t.CredentialID != cred.ID {
		return fmt.Errorf("task %d references credential %d, got credential %d", t.ID, t.CredentialID, cred.ID)
	}
	return nil
}

package rclone

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RemoteName is the config section every sync writes its credentials to
const RemoteName = "remote"

// Remote describes the s3 remote written to the transient rclone config
type Remote struct {
	AccessKeyID     string
	SecretAccessKey string
	// Region may be empty; rclone then falls back to its own default.
	Region   string
	Endpoint string
}

// WriteConfig writes a private rclone config for r into dir and returns its path
// together with a cleanup func that deletes it. The file is restricted to 0600
// before any secret is written.
func WriteConfig(dir string, r Remote) (string, func(), error) {
	for _, v := range []string{r.AccessKeyID, r.SecretAccessKey, r.Region, r.Endpoint} {
		if strings.ContainsAny(v, "\r\n") {
			return "", nil, fmt.Errorf("rclone config values must not contain line breaks")
		}
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", nil, fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	f, err := os.CreateTemp(dir, "rclone-*.conf")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create rclone config: %w", err)
	}
	name := f.Name()
	cleanup := func() { os.Remove(name) }

	if err := f.Chmod(0o600); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to restrict rclone config: %w", err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "[%s]\n", RemoteName)
	fmt.Fprintf(w, "type = s3\n")
	if r.Endpoint != "" {
		fmt.Fprintf(w, "provider = Other\n")
	}
	fmt.Fprintf(w, "env_auth = false\n")
	fmt.Fprintf(w, "access_key_id = %s\n", r.AccessKeyID)
	fmt.Fprintf(w, "secret_access_key = %s\n", r.SecretAccessKey)
	fmt.Fprintf(w, "region = %s\n", r.Region)
	if r.Endpoint != "" {
		fmt.Fprintf(w, "endpoint = %s\n", r.Endpoint)
	}

	if err := w.Flush(); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write rclone config: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write rclone config: %w", err)
	}

	return name, cleanup, nil
}

package importer

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"

	"github.com/containust/containust/internal/primitives"
)

// sshHostConfig is the resolved subset of ~/.ssh/config needed to reach a
// git+ssh remote: the effective hostname/port/identity file for host,
// exactly what the teacher's sshimmer package resolves before signing
// certificates, minus the certificate-authority machinery this fetcher
// has no use for.
type sshHostConfig struct {
	Host         string
	Port         string
	IdentityFile string
}

type sshConfigResolver func(host string) (sshHostConfig, error)
type sshReachabilityChecker func(ctx context.Context, cfg sshHostConfig) error

// resolveSSHConfig reads the user's ~/.ssh/config via kevinburke/ssh_config
// and returns the effective hostname, port, and identity file for host.
func resolveSSHConfig(host string) (sshHostConfig, error) {
	path := filepath.Join(os.Getenv("HOME"), ".ssh", "config")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sshHostConfig{Host: host, Port: "22"}, nil
		}
		return sshHostConfig{}, primitives.NewIo(path, "reading ssh config", err)
	}
	cfg, err := ssh_config.Decode(bytes.NewReader(data))
	if err != nil {
		return sshHostConfig{}, primitives.NewSerialization("decoding ssh config", err)
	}

	hostname := cfg.Get(host, "HostName")
	if hostname == "" {
		hostname = host
	}
	port := cfg.Get(host, "Port")
	if port == "" {
		port = "22"
	}
	identity := cfg.Get(host, "IdentityFile")
	if identity != "" {
		identity = expandHome(identity)
	}
	return sshHostConfig{Host: hostname, Port: port, IdentityFile: identity}, nil
}

func expandHome(p string) string {
	if len(p) > 0 && p[0] == '~' {
		return filepath.Join(os.Getenv("HOME"), p[1:])
	}
	return p
}

// verifySSHReachable dials host:port and performs an SSH handshake using
// the resolved identity file (falling back to ssh-agent if unset), to
// fail fast with a clear authentication/connectivity error before
// invoking the git subprocess.
func verifySSHReachable(ctx context.Context, cfg sshHostConfig) error {
	var authMethods []ssh.AuthMethod
	if cfg.IdentityFile != "" {
		if key, err := os.ReadFile(cfg.IdentityFile); err == nil {
			if signer, err := ssh.ParsePrivateKey(key); err == nil {
				authMethods = append(authMethods, ssh.PublicKeys(signer))
			}
		}
	}
	if len(authMethods) == 0 {
		return primitives.NewConfig("no usable ssh identity for host %q; set IdentityFile in ~/.ssh/config", cfg.Host)
	}

	clientCfg := &ssh.ClientConfig{
		User:            "git",
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	}

	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(cfg.Host, cfg.Port))
	if err != nil {
		return primitives.NewIo(cfg.Host, "dialing ssh host for remote import", err)
	}
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, net.JoinHostPort(cfg.Host, cfg.Port), clientCfg)
	if err != nil {
		return primitives.NewConfig("ssh handshake with %q failed: %v", cfg.Host, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	return client.Close()
}

package backend

import (
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringAccount(t *testing.T) {
	tests := []struct {
		cfg  MPDConfig
		want string
	}{
		{MPDConfig{Host: "localhost", Port: 6600}, "localhost:6600"},
		{MPDConfig{Host: "::1", Port: 6601}, "[::1]:6601"},
		{MPDConfig{Host: "/run/mpd/socket", Port: 6600}, "/run/mpd/socket"},
	}
	for _, tt := range tests {
		if got := keyringAccount(tt.cfg); got != tt.want {
			t.Errorf("keyringAccount(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestResolveKeyringPassword(t *testing.T) {
	keyring.MockInit()
	stored := MPDConfig{Host: "music.lan", Port: 6600}
	if err := SetServerPassword(stored, "fromkeyring"); err != nil {
		t.Fatalf("SetServerPassword: %v", err)
	}

	tests := []struct {
		name    string
		cfg     MPDConfig
		wantPwd string
		wantHas bool
	}{
		{"keyring disabled", MPDConfig{Host: "music.lan", Port: 6600}, "", false},
		{"from keyring", MPDConfig{Host: "music.lan", Port: 6600, UseKeyring: true}, "fromkeyring", true},
		{"not stored", MPDConfig{Host: "other.lan", Port: 6600, UseKeyring: true}, "", false},
		{"explicit password wins", MPDConfig{Host: "music.lan", Port: 6600, UseKeyring: true, Password: "flag", HasPassword: true}, "flag", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.cfg
			resolveKeyringPassword(&c, false, testLogger())
			if c.Password != tt.wantPwd || c.HasPassword != tt.wantHas {
				t.Errorf("password = %q (has %t), want %q (has %t)", c.Password, c.HasPassword, tt.wantPwd, tt.wantHas)
			}
		})
	}
}

func TestResolveKeyringPasswordSave(t *testing.T) {
	keyring.MockInit()
	c := MPDConfig{Host: "localhost", Port: 6600, Password: "secret", HasPassword: true}
	resolveKeyringPassword(&c, true, testLogger())

	got, err := GetServerPassword(c)
	if err != nil {
		t.Fatalf("GetServerPassword: %v", err)
	}
	if got != "secret" {
		t.Errorf("stored password = %q, want %q", got, "secret")
	}
}

package email

import (
	"testing"

	"tubesearch/internal/config"
)

func TestNewServiceEnablement(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want bool
	}{
		{
			name: "fully configured",
			cfg: &config.Config{
				SMTPHost:   "smtp.example.com",
				SMTPFrom:   "alerts@example.com",
				AlertEmail: "ops@example.com",
			},
			want: true,
		},
		{
			name: "no host",
			cfg:  &config.Config{SMTPFrom: "alerts@example.com", AlertEmail: "ops@example.com"},
			want: false,
		},
		{
			name: "no recipient",
			cfg:  &config.Config{SMTPHost: "smtp.example.com", SMTPFrom: "alerts@example.com"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(tt.cfg)
			if s.IsEnabled() != tt.want {
				t.Errorf("IsEnabled() = %v, want %v", s.IsEnabled(), tt.want)
			}
		})
	}
}

func TestSendEmailDisabledIsNoop(t *testing.T) {
	s := NewService(&config.Config{})

	// Must not attempt any network I/O when disabled.
	if err := s.SendEmail([]string{"ops@example.com"}, "subject", "body"); err != nil {
		t.Errorf("SendEmail() on disabled service error = %v, want nil", err)
	}
}

func TestSendEmailNoRecipientsIsNoop(t *testing.T) {
	s := NewService(&config.Config{
		SMTPHost:   "smtp.example.com",
		SMTPFrom:   "alerts@example.com",
		AlertEmail: "ops@example.com",
	})

	if err := s.SendEmail(nil, "subject", "body"); err != nil {
		t.Errorf("SendEmail() with no recipients error = %v, want nil", err)
	}
}

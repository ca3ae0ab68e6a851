// internal/matching/mode_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRoles(t *testing.T) {
	tests := []struct {
		name         string
		mode         Mode
		expectDomain Domain
		expectPen    bool
		expectErr    bool
	}{
		{"seeker searches recruits", ModeSeeker, DomainRecruit, false, false},
		{"recruiter searches candidates", ModeRecruiter, DomainCandidate, true, false},
		{"unknown mode", Mode("EMPLOYER"), "", false, true},
		{"empty mode", Mode(""), "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles, err := ResolveRoles(tt.mode)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidMode)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectDomain, roles.TargetDomain)
			assert.Equal(t, tt.expectPen, roles.ExtraPenalty)
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input     string
		expected  Mode
		expectErr bool
	}{
		{"SEEKER", ModeSeeker, false},
		{"seeker", ModeSeeker, false},
		{" Recruiter ", ModeRecruiter, false},
		{"candidate", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseMode(tt.input)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidMode)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}
}

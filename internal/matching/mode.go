// internal/matching/mode.go
package matching

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the search direction: who initiated the two-party match.
type Mode string

const (
	// ModeSeeker is a job seeker searching postings. Search skills are the
	// seeker's own skills, target skills are each posting's required skills.
	ModeSeeker Mode = "SEEKER"

	// ModeRecruiter is a recruiter searching candidates. Search skills are the
	// posting's required skills, target skills are each candidate's skills.
	ModeRecruiter Mode = "RECRUITER"
)

// Domain names the entity type a shortlist is drawn from.
type Domain string

const (
	DomainRecruit   Domain = "recruit"
	DomainCandidate Domain = "candidate"
)

var ErrInvalidMode = errors.New("invalid search mode")

// Roles describes how a mode assigns scoring operands. The scoring math is
// identical in both directions; only operand assignment and the sign of the
// extra-skill term differ.
type Roles struct {
	// TargetDomain is the entity type the shortlist is drawn from.
	TargetDomain Domain

	// ExtraPenalty selects the recruiter-side interpretation of the extra
	// term: overspec on the target side counts against the match instead of
	// rewarding breadth on the search side.
	ExtraPenalty bool
}

// ResolveRoles maps a mode to its operand assignment. Exactly two modes
// exist; anything else fails with ErrInvalidMode rather than defaulting.
func ResolveRoles(mode Mode) (Roles, error) {
	switch mode {
	case ModeSeeker:
		return Roles{TargetDomain: DomainRecruit, ExtraPenalty: false}, nil
	case ModeRecruiter:
		return Roles{TargetDomain: DomainCandidate, ExtraPenalty: true}, nil
	default:
		return Roles{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// ParseMode converts a request string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeSeeker:
		return ModeSeeker, nil
	case ModeRecruiter:
		return ModeRecruiter, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

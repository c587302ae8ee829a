// Package team holds the fixed roster rendered on the Team page.
//
// The roster is built once at package initialisation and never mutated.
// Callers receive copies, so list order (the display order) cannot drift
// between renders.
package team

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// TeamMember describes one person on the roster.
type TeamMember struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Key returns a stable identifier derived from the member name. Cards are
// keyed by it rather than by list position.
func (m TeamMember) Key() string {
	return Slug(m.Name)
}

var roster = mustValidate([]TeamMember{
	{
		Name:        "Jansen Relator",
		Role:        "Machine Learning Engineer",
		Description: "Specializes in developing and optimizing machine learning models.",
		Image:       "images/jansen.png",
	},
	{
		Name:        "Claire Belle Candia",
		Role:        "Frontend Developer",
		Description: "Focuses on creating user-friendly interfaces and experiences.",
		Image:       "images/profile.jpg",
	},
	{
		Name:        "Anthony Nemenzo",
		Role:        "Backend Developer",
		Description: "Expert in building scalable and efficient server-side applications.",
		Image:       "images/profile.jpg",
	},
	{
		Name:        "Joren Varquez",
		Role:        "Project Manager",
		Description: "Ensures timely delivery and smooth collaboration across the team.",
		Image:       "images/profile.jpg",
	},
})

// Roster returns the team in display order.
func Roster() []TeamMember {
	out := make([]TeamMember, len(roster))
	copy(out, roster)
	return out
}

// Validate reports the first incomplete record or duplicate key in members.
func Validate(members []TeamMember) error {
	seen := make(map[string]int, len(members))
	for idx, member := range members {
		var missing []string
		if strings.TrimSpace(member.Name) == "" {
			missing = append(missing, "name")
		}
		if strings.TrimSpace(member.Role) == "" {
			missing = append(missing, "role")
		}
		if strings.TrimSpace(member.Description) == "" {
			missing = append(missing, "description")
		}
		if strings.TrimSpace(member.Image) == "" {
			missing = append(missing, "image")
		}
		if len(missing) > 0 {
			return fmt.Errorf("team member %d: missing %s", idx, strings.Join(missing, ", "))
		}
		key := member.Key()
		if key == "" {
			return fmt.Errorf("team member %d: name %q has no key characters", idx, member.Name)
		}
		if previous, ok := seen[key]; ok {
			return fmt.Errorf("team member %d: key %q already used by member %d", idx, key, previous)
		}
		seen[key] = idx
	}
	return nil
}

// ErrEmptyRoster is returned by mustValidate for an empty list.
var ErrEmptyRoster = errors.New("team roster is empty")

func mustValidate(members []TeamMember) []TeamMember {
	if len(members) == 0 {
		panic(ErrEmptyRoster)
	}
	if err := Validate(members); err != nil {
		panic(err)
	}
	return members
}

// Slug lowercases s and joins its letter/digit runs with hyphens.
func Slug(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

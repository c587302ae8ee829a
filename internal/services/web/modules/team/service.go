package team

import teamroster "github.com/fawdetect/fawdetect/internal/team"

type service struct {
	roster RosterSource
}

func newService(roster RosterSource) service {
	if roster == nil {
		roster = teamroster.Roster
	}
	return service{roster: roster}
}

func (s service) members() []teamroster.TeamMember {
	return s.roster()
}

type memberView struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type rosterView struct {
	Members []memberView `json:"members"`
}

func (s service) rosterView() rosterView {
	members := s.members()
	view := rosterView{Members: make([]memberView, 0, len(members))}
	for _, member := range members {
		view.Members = append(view.Members, memberView{
			Key:         member.Key(),
			Name:        member.Name,
			Role:        member.Role,
			Description: member.Description,
			Image:       member.Image,
		})
	}
	return view
}

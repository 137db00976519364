package handler

import (
	"testing"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/engine"
)

func TestToEvent(t *testing.T) {
	rate := 0.05
	tests := []struct {
		req  eventRequest
		want engine.Event
	}{
		{eventRequest{Type: "set_name", Name: "민수"}, engine.SetName{Text: "민수"}},
		{eventRequest{Type: "select_avatar", Avatar: "rami"}, engine.SelectAvatar{Avatar: domain.AvatarRami}},
		{eventRequest{Type: "enroll"}, engine.Enroll{}},
		{eventRequest{Type: "dismiss_overlay"}, engine.DismissOverlay{}},
		{eventRequest{Type: "graduate"}, engine.Graduate{}},
		{eventRequest{Type: "write_diary", Text: "오늘은 저축을 했다"}, engine.WriteDiary{Text: "오늘은 저축을 했다"}},
		{eventRequest{Type: "set_years", Years: 30}, engine.SetYears{Years: 30}},
		{eventRequest{Type: "set_rate", Rate: &rate}, engine.SetRate{Rate: 0.05}},
		{eventRequest{Type: "submit_answer", Blank: "blank1", Word: "시간"}, engine.SubmitAnswer{Blank: domain.BlankTime, Word: "시간"}},
		{eventRequest{Type: "claim_certificate"}, engine.ClaimCertificate{}},
		{eventRequest{Type: "roll_dice"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.req.Type, func(t *testing.T) {
			if got := toEvent(tt.req); got != tt.want {
				t.Fatalf("toEvent(%s) = %#v, want %#v", tt.req.Type, got, tt.want)
			}
		})
	}
}

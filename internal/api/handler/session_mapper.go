package handler

import (
	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/engine"
)

// --- Request → engine event ---

// toEvent maps a validated request to its engine event. roll_dice is
// handled by the service directly and is not mapped here.
func toEvent(r eventRequest) engine.Event {
	switch r.Type {
	case "set_name":
		return engine.SetName{Text: r.Name}
	case "select_avatar":
		return engine.SelectAvatar{Avatar: domain.Avatar(r.Avatar)}
	case "enroll":
		return engine.Enroll{}
	case "dismiss_overlay":
		return engine.DismissOverlay{}
	case "graduate":
		return engine.Graduate{}
	case "choose_option":
		return engine.ChooseOption{Situation: r.Situation, Option: r.Option}
	case "view_account_book":
		return engine.ViewAccountBook{}
	case "write_diary":
		return engine.WriteDiary{Text: r.Text}
	case "view_result":
		return engine.ViewResult{}
	case "back_to_account_book":
		return engine.BackToAccountBook{}
	case "start_compound":
		return engine.StartCompound{}
	case "set_years":
		return engine.SetYears{Years: r.Years}
	case "set_rate":
		var rate float64
		if r.Rate != nil {
			rate = *r.Rate
		}
		return engine.SetRate{Rate: rate}
	case "open_quiz":
		return engine.OpenQuiz{}
	case "submit_answer":
		return engine.SubmitAnswer{Blank: domain.QuizBlank(r.Blank), Word: r.Word}
	case "claim_certificate":
		return engine.ClaimCertificate{}
	}
	return nil
}

// --- Service result → HTTP response ---

func toLinks(id string) sessionLinks {
	base := "/v1/sessions/" + id
	return sessionLinks{
		Self:        base,
		Events:      base + "/events",
		Certificate: base + "/certificate.png",
	}
}

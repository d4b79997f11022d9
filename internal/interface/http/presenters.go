package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/campus-events/internal/domain/entity"
)

func eventJSON(e *entity.Event) gin.H {
	return gin.H{
		"id":               e.ID,
		"title":            e.Title,
		"description":      e.Description,
		"date":             e.Date,
		"venue":            e.Venue,
		"category":         e.Category,
		"category_label":   e.Category.Label(),
		"capacity":         e.Capacity,
		"image_url":        e.ImageURL,
		"registered_count": e.RegisteredCount,
		"seats_left":       e.SeatsLeft(),
	}
}

func eventsJSON(events []entity.Event) []gin.H {
	out := make([]gin.H, 0, len(events))
	for i := range events {
		out = append(out, eventJSON(&events[i]))
	}
	return out
}

func profileJSON(p *entity.StudentProfile) gin.H {
	if p == nil {
		return nil
	}
	return gin.H{
		"college_email":       p.CollegeEmail,
		"registration_number": p.RegistrationNumber,
		"branch":              p.Branch,
		"department":          p.Department,
		"year_of_study":       p.YearOfStudy,
		"interests":           p.Interests,
	}
}

func registrationJSON(d *entity.RegistrationDetail) gin.H {
	out := gin.H{
		"id":              d.ID,
		"registration_id": d.Token,
		"username":        d.Username,
		"attended":        d.Attended,
		"verified_at":     d.VerifiedAt,
		"verified_by":     d.VerifiedByUsername,
		"created_at":      d.CreatedAt,
		"event":           eventJSON(&d.Event),
		"qr_url":          "/qr/" + d.Token,
	}
	if d.Profile != nil {
		out["profile"] = profileJSON(d.Profile)
	}
	return out
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"is_staff":   u.IsStaff,
		"created_at": u.CreatedAt,
	}
}

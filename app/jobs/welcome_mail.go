package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/pkg/event"
	"github.com/shashiranjanraj/medicore/pkg/logger"
	"github.com/shashiranjanraj/medicore/pkg/mail"
	"github.com/shashiranjanraj/medicore/pkg/orm"
	"github.com/shashiranjanraj/medicore/pkg/queue"
)

// EventUserRegistered is fired by the auth service after account creation.
// The payload is the created models.User.
const EventUserRegistered = "user.registered"

// WelcomeMailJob greets a freshly registered patient by email.
type WelcomeMailJob struct {
	UserPK uint `json:"user_pk"`
}

// RegisterListeners subscribes queue-backed handlers to domain events.
// Called once at boot, after RegisterJobs.
func RegisterListeners() {
	event.Listen(EventUserRegistered, func(payload interface{}) {
		user, ok := payload.(models.User)
		if !ok {
			return
		}
		if err := queue.Dispatch(WelcomeMailJob{UserPK: user.ID}); err != nil {
			logger.Error("jobs: enqueue welcome mail", "user_id", user.ID, "error", err)
		}
	})
}

func (j WelcomeMailJob) Handle() error {
	var user models.User
	if err := orm.DB().Model(&models.User{}).Where("id = ?", j.UserPK).First(&user); err != nil {
		return fmt.Errorf("welcome mail: load user %d: %w", j.UserPK, err)
	}

	body := fmt.Sprintf(
		"<h2>Welcome to Medicore</h2>"+
			"<p>Dear %s,</p>"+
			"<p>Your account is ready. You can now book services, track your "+
			"orders and manage your profile online.</p>",
		user.Name,
	)

	return mail.To(user.Email).
		Subject("Welcome to Medicore").
		Body(body).
		Send()
}

package hook

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ccdc-opensource/githook/internal/domain"
)

// badUsernamePattern rejects service accounts and anything that is not a
// plain alphabetic name.
var badUsernamePattern = regexp.MustCompile(`root|buildman|[^a-zA-Z ]`)

// checkUsername validates the author of the pending commit.
func (r *Runner) checkUsername(ctx context.Context, report *domain.RunReport) {
	username, err := r.git.AuthorName(ctx)
	if err != nil {
		r.violation(report, domain.Violation{
			Check:   domain.CheckUsername,
			Message: fmt.Sprintf("could not determine commit author: %v", err),
		})
		return
	}

	if !badUsernamePattern.MatchString(username) {
		return
	}

	message := fmt.Sprintf("bad username %q", username)
	if username == "root" || username == "buildman" {
		message += "; buildman or root user should not be used"
	} else {
		message += "; to set this up see https://docs.github.com/en/github/using-git/setting-your-username-in-git"
	}
	r.violation(report, domain.Violation{
		Check:   domain.CheckUsername,
		Message: message,
	})
}

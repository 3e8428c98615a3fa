package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	userDomain "github.com/reshetovitsme/channel-telltale/internal/modules/user/domain"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
	"github.com/reshetovitsme/channel-telltale/internal/shared/tmpl"
	"github.com/samber/lo"
	"github.com/slack-go/slack"
)

// Colors is the palette announcement cards pick from
var Colors = []string{
	"#ff1744", "#f50057", "#d500f9", "#651fff", "#3d5afe", "#2979ff", "#00b0ff", "#00e5ff",
	"#1de9b6", "#00e676", "#76ff03", "#ffea00", "#ffc400", "#ff9100", "#ff3d00",
}

// RenameMsg is substituted for {rename_msg} when the channel was renamed
const RenameMsg = "(via renaming)"

const (
	announcementFallback   = "{creator_name} just created a new channel {rename_msg} :tada:\n<#{channel_id}|{channel_name}>\nIts purpose is: {channel_purpose} "
	announcementPretext    = "A new channel has been created {rename_msg} :tada:"
	announcementAuthorName = "{creator_name} <@{creator_id}>"
	announcementAuthorIcon = "{creator_image}"
	announcementTitle      = "<#{channel_id}>"
	announcementText       = "{channel_purpose}"
)

// TemplateVars builds the substitution variables for announcement templates
func TemplateVars(eventType domain.EventType, ch *domain.Channel, creator *userDomain.User) tmpl.Vars {
	vars := tmpl.Vars{
		"channel_id":      ch.ID,
		"channel_name":    ch.Name,
		"channel_purpose": ch.Purpose,
	}
	if creator != nil {
		vars["creator_id"] = creator.ID
		vars["creator_name"] = creator.RealName
		vars["creator_image"] = creator.Image24
	}
	if eventType == domain.EventTypeRename {
		vars["rename_msg"] = RenameMsg
	}
	return vars
}

func (s *Service) randomColor() string {
	return Colors[s.intn(len(Colors))]
}

func (s *Service) announcementAttachment(eventType domain.EventType, ch *domain.Channel, creator *userDomain.User) slack.Attachment {
	vars := TemplateVars(eventType, ch, creator)
	return slack.Attachment{
		Fallback:   tmpl.Render(announcementFallback, vars),
		Color:      s.randomColor(),
		Pretext:    tmpl.Render(announcementPretext, vars),
		AuthorName: tmpl.Render(announcementAuthorName, vars),
		AuthorIcon: tmpl.Render(announcementAuthorIcon, vars),
		Title:      tmpl.Render(announcementTitle, vars),
		Text:       tmpl.Render(announcementText, vars),
	}
}

// NormalizeIssueTrackerURL makes sure the prefix ends in an issue browse path
func NormalizeIssueTrackerURL(url string) string {
	if strings.HasSuffix(url, "/browse/") {
		return url
	}
	return strings.TrimSuffix(url, "/") + "/jira/browse/"
}

func (s *Service) postIssueLink(ctx context.Context, logger *slog.Logger, ch *domain.Channel) {
	if s.cfg.IssueTrackerURL == "" {
		return
	}

	issueID, remainder, ok := domain.ExtractIssueID(ch.Name, s.InterestingPrefixes())
	if !ok {
		return
	}

	link := s.cfg.IssueTrackerURL + issueID
	attachments := []slack.Attachment{{
		Fallback: "This channel is related to this JIRA issue: " + link,
		Color:    s.randomColor(),
		Title:    "Related JIRA Issue",
		Text:     link,
	}}
	if remainder == issueID {
		attachments = append(attachments, slack.Attachment{
			Fallback: "This channel is named after its issue only",
			Color:    s.randomColor(),
			Text: fmt.Sprintf("Psst! A channel called just `%s` is hard to find later. "+
				"Consider renaming it to something like `%s%s-short-description`.", ch.Name, strings.TrimSuffix(ch.Name, issueID), issueID),
		})
	}

	if _, err := s.client.PostMessage(ctx, ch.ID, messaging.Message{Attachments: attachments}); err != nil {
		logger.Error("Failed to post issue link", "issue_id", issueID, "error", err)
		return
	}
	s.metrics.NotificationsSent.WithLabelValues("issue_link").Inc()
	logger.Info("Posted issue link", "issue_id", issueID)
}

func (s *Service) pageInterestedUsers(ctx context.Context, logger *slog.Logger, ch *domain.Channel) {
	users, err := s.users.InterestedUsers(ctx, ch)
	if err != nil {
		logger.Error("Failed to resolve interested users", "error", err)
		return
	}
	if len(users) == 0 {
		return
	}

	mentions := strings.Join(lo.Map(users, func(u userDomain.User, _ int) string {
		return "<@" + u.ID + ">"
	}), " ")
	invite := messaging.Message{Attachments: []slack.Attachment{{
		Fallback: "People interested in channels like this one: " + mentions,
		Color:    s.randomColor(),
		Title:    "You might want to invite",
		Text:     mentions + "\nThey asked to hear about channels like this one.",
	}}}
	if _, err := s.client.PostMessage(ctx, ch.ID, invite); err != nil {
		logger.Error("Failed to post invite card", "error", err)
	} else {
		s.metrics.NotificationsSent.WithLabelValues("invite_card").Inc()
	}

	vars := TemplateVars(domain.EventTypeCreate, ch, nil)
	text := tmpl.Render("A channel you might be interested in was just created: <#{channel_id}|{channel_name}>\nIts purpose is: {channel_purpose}", vars)
	for _, u := range users {
		if _, err := s.client.PostMessage(ctx, u.ID, messaging.Message{Text: text}); err != nil {
			logger.Error("Failed to message interested user", "user_id", u.ID, "error", err)
			continue
		}
		s.metrics.NotificationsSent.WithLabelValues("interested_user").Inc()
	}
}

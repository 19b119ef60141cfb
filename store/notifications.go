package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/truyenhub/truyenhub/docstore"
	"github.com/truyenhub/truyenhub/log"
	"github.com/truyenhub/truyenhub/model"
)

// Notification times are stored in UTC and rendered in Vietnam time.
var vietnamOffset = 7 * time.Hour

// parseNotifications turns the user document's "text~ISO-time" entries
// into display items. Entries missing either half, or whose time does not
// parse, are dropped.
func parseNotifications(raw []string, now time.Time) []model.Notification {
	vnNow := now.UTC().Add(vietnamOffset)

	items := make([]model.Notification, 0, len(raw))
	for _, entry := range raw {
		parts := strings.Split(entry, "~")
		text := parts[0]
		var stamp string
		if len(parts) > 1 {
			stamp = parts[1]
		}
		if text == "" || stamp == "" {
			continue
		}

		t, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			log.Warn("Dropping notification with unreadable time",
				zap.String("time", stamp), zap.Error(err))
			continue
		}
		vn := t.UTC().Add(vietnamOffset)

		title := fmt.Sprintf("%d/%d", vn.Day(), int(vn.Month()))
		if vn.Day() == vnNow.Day() && vn.Month() == vnNow.Month() {
			title = "Hôm nay"
		}

		items = append(items, model.Notification{
			Text:  text,
			Title: title,
			Time:  fmt.Sprintf("%02d:%02d", vn.Hour(), vn.Minute()),
		})
	}
	return items
}

// groupNotifications buckets items under their day title, keeping the
// first-seen title order.
func groupNotifications(items []model.Notification) []model.NotificationGroup {
	var groups []model.NotificationGroup
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Title]
		if !ok {
			i = len(groups)
			index[item.Title] = i
			groups = append(groups, model.NotificationGroup{Title: item.Title})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// LoadNotifications derives the notification view from the account's raw
// list. It is purely local; the raw list arrives with the user document.
func (s *Store) LoadNotifications() {
	s.accountMu.RLock()
	raw := s.account.NotificationList
	s.accountMu.RUnlock()

	items := parseNotifications(raw, time.Now())
	groups := groupNotifications(items)

	s.notifMu.Lock()
	s.notif.Notifications = items
	s.notif.Grouped = groups
	s.notif.Err = ""
	s.notifMu.Unlock()
}

// ClearNotifications empties the list on the user document and locally.
func (s *Store) ClearNotifications(ctx context.Context) error {
	userID := s.currentUserID()
	if userID != "" {
		err := s.gw.UpdateDoc(ctx, docstore.CollectionUsers, userID, docstore.Doc{
			"notificationList": []string{},
		})
		if err != nil {
			s.notifMu.Lock()
			s.notif.Err = err.Error()
			s.notifMu.Unlock()
			return err
		}
	}

	s.accountMu.Lock()
	s.account.NotificationList = nil
	s.accountMu.Unlock()

	s.notifMu.Lock()
	s.notif.Notifications = nil
	s.notif.Grouped = nil
	s.notif.Err = ""
	s.notifMu.Unlock()
	return nil
}

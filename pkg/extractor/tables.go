package extractor

import "github.com/andybalholm/cascadia"

// MessageSelector matches one message bubble on a t.me/s preview page.
var MessageSelector = cascadia.MustCompile("div.tgme_widget_message_bubble")

// MessagePaths are evaluated against a single message bubble.
var MessagePaths = mustTable(
	[2]string{"post_id", "../@data-post"},
	[2]string{"views", "span.tgme_widget_message_views"},
	[2]string{"datetime", "time@datetime"},
	[2]string{"user", "a.tgme_widget_message_owner_name"},
	[2]string{"from_author", "span.tgme_widget_message_from_author"},
	[2]string{"text", "./div.tgme_widget_message_text"},
	[2]string{"link", "div.tgme_widget_message_text a@href"},
	[2]string{"reply_to_user", "a.tgme_widget_message_reply span.tgme_widget_message_author_name"},
	[2]string{"reply_to_text", "a.tgme_widget_message_reply div.tgme_widget_message_text"},
	[2]string{"reply_to_link", "a.tgme_widget_message_reply@href"},
	[2]string{"image_url", "./a.tgme_widget_message_photo_wrap@style"},
	[2]string{"forwarded_message_url", "a.tgme_widget_message_forwarded_from_name@href"},
	[2]string{"forwarded_message_user", "a.tgme_widget_message_forwarded_from_name"},
	[2]string{"video_url", "video.tgme_widget_message_video@src"},
	[2]string{"video_duration", "time.message_video_duration"},
)

// UserPaths are evaluated against the whole preview page.
var UserPaths = mustTable(
	[2]string{"name", "div.tgme_channel_info_header_username > a"},
	[2]string{"fullname", "div.tgme_channel_info_header_title::text"},
	[2]string{"url", "div.tgme_channel_info_header_username > a@href"},
	[2]string{"description", "div.tgme_channel_info_description::text"},
	[2]string{"subscriber_count", counterPath("subscriber")},
	[2]string{"photos_count", counterPath("photo")},
	[2]string{"videos_count", counterPath("video")},
	[2]string{"files_count", counterPath("file")},
	[2]string{"links_count", counterPath("link")},
)

// counterPath selects the value of the channel counter whose label contains
// counterType. Singular labels ("1 photo") match as well as plural ones.
func counterPath(counterType string) string {
	return `div.tgme_channel_info_counter:has(span.counter_type:containsOwn("` + counterType + `")) > span.counter_value`
}

package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/tg-preview-scraper/pkg/parser"
	"github.com/google/go-cmp/cmp"
)

const samplePage = `<html><body>
<div class="tgme_channel_info">
  <div class="tgme_channel_info_header">
    <div class="tgme_channel_info_header_title"><span dir="auto">My <b>Channel</b></span></div>
    <div class="tgme_channel_info_header_username"><a href="https://t.me/mychannel">@mychannel</a></div>
  </div>
  <div class="tgme_channel_info_description">News and <b>updates</b></div>
  <div class="tgme_channel_info_counters">
    <div class="tgme_channel_info_counter"><span class="counter_value">1.2K</span> <span class="counter_type">subscribers</span></div>
    <div class="tgme_channel_info_counter"><span class="counter_value">1</span> <span class="counter_type">photo</span></div>
    <div class="tgme_channel_info_counter"><span class="counter_value">3</span> <span class="counter_type">links</span></div>
  </div>
</div>
<div class="tgme_widget_message js-widget_message" data-post="mychannel/1234">
  <div class="tgme_widget_message_bubble">
    <a class="tgme_widget_message_reply" href="https://t.me/mychannel/1200"><span class="tgme_widget_message_author_name">Someone</span><div class="tgme_widget_message_text">quoted</div></a>
    <div class="tgme_widget_message_text js-message_text">Hello <a href="https://example.com">world</a><br/>line two</div>
    <span class="tgme_widget_message_views">1.5K</span>
    <time datetime="2024-01-15T10:30:00+00:00">10:30</time>
  </div>
</div>
</body></html>`

func loadSample(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("failed to parse sample page: %v", err)
	}
	return doc
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		wantUp   int
		wantKids bool
		wantMode Mode
		wantAttr string
		wantErr  bool
	}{
		{name: "descendant text nodes", expr: "span.views", wantMode: ModeTextNodes},
		{name: "attribute", expr: "time@datetime", wantMode: ModeAttr, wantAttr: "datetime"},
		{name: "parent attribute", expr: "../@data-post", wantUp: 1, wantMode: ModeAttr, wantAttr: "data-post"},
		{name: "two levels up", expr: "../../div.x", wantUp: 2, wantMode: ModeTextNodes},
		{name: "direct children", expr: "./div.text", wantKids: true, wantMode: ModeTextNodes},
		{name: "direct child attribute", expr: "./a.photo@style", wantKids: true, wantMode: ModeAttr, wantAttr: "style"},
		{name: "whole text", expr: "div.description::text", wantMode: ModeText},
		{name: "self text nodes", expr: "", wantMode: ModeTextNodes},
		{name: "children without selector", expr: "./", wantErr: true},
		{name: "bad selector", expr: "div[", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePath(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if p.up != tt.wantUp || p.children != tt.wantKids || p.mode != tt.wantMode || p.attr != tt.wantAttr {
				t.Errorf("ParsePath(%q) = {up:%d children:%v mode:%d attr:%q}, want {up:%d children:%v mode:%d attr:%q}",
					tt.expr, p.up, p.children, p.mode, p.attr, tt.wantUp, tt.wantKids, tt.wantMode, tt.wantAttr)
			}
		})
	}
}

func TestNewTable_RejectsDuplicates(t *testing.T) {
	_, err := NewTable([2]string{"a", "span"}, [2]string{"a", "div"})
	if err == nil {
		t.Fatal("NewTable() with duplicate names succeeded, want error")
	}
}

func TestExtract_MessageBubble(t *testing.T) {
	doc := loadSample(t)

	all, err := ExtractAll(doc.Selection, MessageSelector, MessagePaths)
	if err != nil {
		t.Fatalf("ExtractAll() failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("ExtractAll() returned %d messages, want 1", len(all))
	}
	got := all[0]

	for _, name := range MessagePaths.Names() {
		if _, ok := got[name]; !ok {
			t.Errorf("field %q missing from raw fields", name)
		}
	}

	checks := map[string][]string{
		"post_id":       {"mychannel/1234"},
		"views":         {"1.5K"},
		"datetime":      {"2024-01-15T10:30:00+00:00"},
		"text":          {"Hello ", "world", "line two"},
		"link":          {"https://example.com"},
		"reply_to_user": {"Someone"},
		"reply_to_text": {"quoted"},
		"reply_to_link": {"https://t.me/mychannel/1200"},
		"video_url":     {},
	}
	for field, want := range checks {
		if diff := cmp.Diff(want, got[field]); diff != "" {
			t.Errorf("field %s mismatch (-want +got):\n%s", field, diff)
		}
	}
}

func TestExtract_UserPaths(t *testing.T) {
	doc := loadSample(t)

	got, err := Extract(doc.Selection, UserPaths)
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}

	want := map[string][]string{
		"name":             {"@mychannel"},
		"fullname":         {"My Channel"},
		"url":              {"https://t.me/mychannel"},
		"description":      {"News and updates"},
		"subscriber_count": {"1.2K"},
		"photos_count":     {"1"},
		"videos_count":     {},
		"files_count":      {},
		"links_count":      {"3"},
	}
	if diff := cmp.Diff(want, map[string][]string(got)); diff != "" {
		t.Errorf("user fields mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_NoMessages(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><p>private</p></body></html>`))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	all, err := ExtractAll(doc.Selection, MessageSelector, MessagePaths)
	if err != nil {
		t.Fatalf("ExtractAll() failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("ExtractAll() returned %d messages, want 0", len(all))
	}
}

func TestExtract_InvalidNode(t *testing.T) {
	doc := loadSample(t)

	if _, err := Extract(doc.Find("nothing-here"), UserPaths); !errors.Is(err, parser.ErrDocument) {
		t.Errorf("Extract(empty) error = %v, want ErrDocument", err)
	}

	text := doc.Find("span.counter_value").Contents()
	if _, err := Extract(text, UserPaths); !errors.Is(err, parser.ErrDocument) {
		t.Errorf("Extract(text node) error = %v, want ErrDocument", err)
	}
}

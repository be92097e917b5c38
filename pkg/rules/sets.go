package rules

import (
	"regexp"
	"slices"
	"strings"

	"github.com/dtnitsch/tg-preview-scraper/pkg/parser"
)

// MultiValued message fields keep every match instead of gluing them into one word.
var MultiValued = []string{"link", "image_url", "video_url"}

var backgroundURL = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)

// MessageRules cleans fields extracted from one message bubble.
var MessageRules = NewSet(
	Func{
		Name:  "join text lines",
		When:  func(key string, v any) bool { return key == "text" && isList(v) },
		Apply: joinOrNil("\n"),
	},
	Func{
		Name:  "image style to url",
		When:  func(key string, v any) bool { return key == "image_url" && isList(v) },
		Apply: styleURLs,
	},
	Func{
		Name:  "parse datetime list",
		When:  func(key string, v any) bool { l, ok := v.([]string); return key == "datetime" && ok && len(l) == 1 },
		Apply: timestamp,
	},
	Func{
		Name:  "join multi-valued",
		When:  func(key string, v any) bool { return isList(v) && slices.Contains(MultiValued, key) },
		Apply: joinOrNil(" "),
	},
	Func{
		Name:  "collapse list",
		When:  func(key string, v any) bool { return isList(v) },
		Apply: joinOrNil(""),
	},
	trimRule,
	Func{
		Name:  "parse counters",
		When:  func(key string, v any) bool { return isString(v) && (strings.Contains(key, "count") || strings.Contains(key, "views")) },
		Apply: number,
	},
	Func{
		Name:  "parse datetime",
		When:  func(key string, v any) bool { return key == "datetime" && isString(v) },
		Apply: timestamp,
	},
)

// UserRules cleans fields extracted from a channel header.
var UserRules = NewSet(
	Func{
		Name:  "first value",
		When:  func(_ string, v any) bool { return isList(v) },
		Apply: first,
	},
	trimRule,
	Func{
		Name:  "strip @ from name",
		When:  func(key string, v any) bool { return key == "name" && isString(v) },
		Apply: func(v any) any { return strings.ReplaceAll(v.(string), "@", "") },
	},
	Func{
		Name:  "parse counters",
		When:  func(key string, v any) bool { return isString(v) && strings.Contains(key, "count") },
		Apply: number,
	},
	Func{
		Name:  "empty to nil",
		When:  func(_ string, v any) bool { s, ok := v.(string); return ok && s == "" },
		Apply: func(any) any { return nil },
	},
)

var trimRule = Func{
	Name:  "trim",
	When:  func(_ string, v any) bool { return isString(v) },
	Apply: func(v any) any { return strings.TrimSpace(v.(string)) },
}

func isList(v any) bool {
	_, ok := v.([]string)
	return ok
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func joinOrNil(sep string) func(any) any {
	return func(v any) any {
		l := v.([]string)
		if len(l) == 0 {
			return nil
		}
		return strings.Join(l, sep)
	}
}

func first(v any) any {
	l := v.([]string)
	if len(l) == 0 {
		return nil
	}
	return l[0]
}

func number(v any) any {
	f, err := parser.ParseNumber(v.(string))
	if err != nil {
		return nil
	}
	return f
}

func timestamp(v any) any {
	t, err := parser.ParseTimestamp(v)
	if err != nil {
		return nil
	}
	return t
}

// styleURLs turns inline styles such as background-image:url('x') into x.
// Values without a url() are kept as they are, so cleaned urls stay stable.
func styleURLs(v any) any {
	l := v.([]string)
	out := make([]string, len(l))
	for i, style := range l {
		out[i] = style
		if m := backgroundURL.FindStringSubmatch(style); m != nil {
			out[i] = m[1]
		}
	}
	return out
}

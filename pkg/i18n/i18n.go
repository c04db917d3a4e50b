// Package i18n resolves the interface language and holds the strings the
// reader's core emits: export labels, prompts, and error texts.
package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Lang is a resolved interface language.
type Lang string

const (
	English Lang = "en"
	Chinese Lang = "zh"
)

// Auto is the configuration value that asks for detection.
const Auto = "auto"

var (
	supported = []Lang{English, Chinese}
	matcher   = language.NewMatcher([]language.Tag{language.English, language.Chinese})
	zhBase, _ = language.Chinese.Base()
)

// Resolve maps a configured language ("en", "zh" or "auto") to a Lang.
// "auto" and unknown values are detected from the environment.
func Resolve(setting string) Lang {
	switch Lang(setting) {
	case English, Chinese:
		return Lang(setting)
	}

	return Detect(SystemLocales()...)
}

// SystemLocales returns the POSIX locale variables in precedence order.
func SystemLocales() []string {
	var out []string
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			out = append(out, v)
		}
	}

	return out
}

// Detect picks Chinese when the first recognizable locale is any Chinese
// variant and English otherwise.
func Detect(locales ...string) Lang {
	for _, loc := range locales {
		tag, err := language.Parse(normalizeLocale(loc))
		if err != nil {
			continue
		}

		_, idx, conf := matcher.Match(tag)
		if conf != language.No {
			return supported[idx]
		}

		if base, _ := tag.Base(); base == zhBase {
			return Chinese
		}

		return English
	}

	return English
}

// normalizeLocale turns "zh_CN.UTF-8@pinyin" into "zh-CN".
func normalizeLocale(loc string) string {
	if i := strings.IndexAny(loc, ".@"); i >= 0 {
		loc = loc[:i]
	}

	return strings.ReplaceAll(loc, "_", "-")
}

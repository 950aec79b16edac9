package flatfile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/types"
)

// titleWidth is the column the metadata separator is padded to.
const titleWidth = 60

// Index metadata keys with a dedicated Record field.
const (
	keyID     = "id"
	keyOpen   = "open"
	keyOwner  = "owner"
	keyTime   = "time"
	keyAuthor = "author"
	keyType   = "type"
)

// ParseLine parses one index line of the form
//
//	title text ... | id:<id>, open:True, owner:<owner>, time:<epoch>
//
// The title is everything before the last "|". A line without "|" is a
// title typed by hand; it returns ok=false and a record holding only the
// title, which the caller must complete.
func ParseLine(line string) (r *types.Record, ok bool, err error) {
	i := strings.LastIndex(line, "|")
	if i < 0 {
		return &types.Record{Title: strings.TrimSpace(line), Open: true}, false, nil
	}

	r = &types.Record{Title: strings.TrimSpace(line[:i])}
	for _, piece := range strings.Split(strings.TrimSpace(line[i+1:]), ",") {
		label, value, found := strings.Cut(piece, ":")
		if !found {
			return nil, false, fmt.Errorf("failed to parse record metadata %q; perhaps a misplaced '|'?", piece)
		}
		label, value = strings.TrimSpace(label), strings.TrimSpace(value)
		switch label {
		case keyID:
			r.ID = value
		case keyOpen:
			r.Open = truth(value)
		case keyOwner:
			r.Owner = value
		case keyAuthor:
			r.Author = value
		case keyType:
			r.Type = value
		case keyTime:
			t, err := ParseEpoch(value)
			if err != nil {
				return nil, false, fmt.Errorf("record %s: %w", r.ID, err)
			}
			r.Entered = t
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]string)
			}
			r.Extra[label] = value
		}
	}
	if r.ID == "" {
		return nil, false, fmt.Errorf("record %q has no id", r.Title)
	}
	return r, true, nil
}

// CheckLine reports whether r can be written as an index line that parses
// back to the same metadata. Metadata values must not contain the "," and
// "|" separators.
func CheckLine(r *types.Record) error {
	values := map[string]string{
		keyID:     r.ID,
		keyOwner:  r.Owner,
		keyAuthor: r.Author,
		keyType:   r.Type,
	}
	for k, v := range r.Extra {
		values[k] = v
	}
	for k, v := range values {
		if strings.ContainsAny(k, ",|:") || strings.ContainsAny(v, ",|") {
			return storage.InputError("record %s: %s %q cannot contain ',' or '|' in the bugs index", r.ID, k, v)
		}
	}
	if strings.ContainsAny(r.Title, "\n\r") {
		return storage.InputError("record %s: title must be a single line", r.ID)
	}
	return nil
}

// FormatLine renders a record as one index line, without a trailing newline.
func FormatLine(r *types.Record) string {
	meta := []string{
		keyID + ":" + r.ID,
		keyOpen + ":" + pyBool(r.Open),
		keyOwner + ":" + r.Owner,
		keyTime + ":" + FormatEpoch(r.Entered),
	}
	if r.Author != "" {
		meta = append(meta, keyAuthor+":"+r.Author)
	}
	if r.Type != "" {
		meta = append(meta, keyType+":"+r.Type)
	}
	extra := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		meta = append(meta, k+":"+r.Extra[k])
	}
	return fmt.Sprintf("%-*s | %s", titleWidth, r.Title, strings.Join(meta, ", "))
}

// FormatEpoch renders t as decimal Unix seconds with exact nanoseconds and
// no trailing zeros, e.g. "1700000000.25" or "1700000000.0".
func FormatEpoch(t time.Time) string {
	frac := strings.TrimRight(fmt.Sprintf("%09d", t.Nanosecond()), "0")
	if frac == "" {
		frac = "0"
	}
	return strconv.FormatInt(t.Unix(), 10) + "." + frac
}

// ParseEpoch reads decimal Unix seconds as written by FormatEpoch, or any
// float representation. The result is in UTC.
func ParseEpoch(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "eE") || strings.HasPrefix(s, "-") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
		}
		sec := int64(f)
		return time.Unix(sec, int64((f-float64(sec))*1e9)).UTC(), nil
	}

	whole, frac, _ := strings.Cut(s, ".")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if len(frac) > 9 {
		frac = frac[:9]
	}
	var nsec int64
	if frac != "" {
		nsec, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
		}
	}
	return time.Unix(sec, nsec).UTC(), nil
}

func truth(s string) bool {
	return s == "True" || s == "true"
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

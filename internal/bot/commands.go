package bot

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
)

// addArgs is the parsed form of "/add <title> est=30 difficulty=2
// date=15.12.2024 parent=7". Every argument is optional except the title.
type addArgs struct {
	Title            string
	EstimatedMinutes int
	Difficulty       int
	TaskDate         *time.Time
	ParentID         *int64
}

var (
	reEst    = regexp.MustCompile(`(?i)est\s*=\s*(\d+)`)
	reDiff   = regexp.MustCompile(`(?i)difficulty\s*=\s*(\d+)`)
	reDate   = regexp.MustCompile(`(?i)date\s*=\s*(\d{1,2}[./]\d{1,2}[./]\d{2,4})`)
	reParent = regexp.MustCompile(`(?i)parent\s*=\s*(\d+)`)
	reSpace  = regexp.MustCompile(`\s+`)
)

// parseAddArgs extracts the inline key=value arguments and leaves the rest as
// the title. A bad date is the only parse error.
func parseAddArgs(args string) (addArgs, error) {
	out := addArgs{Difficulty: 1}

	if m := reEst.FindStringSubmatch(args); m != nil {
		out.EstimatedMinutes, _ = strconv.Atoi(m[1])
		args = reEst.ReplaceAllString(args, "")
	}
	if m := reDiff.FindStringSubmatch(args); m != nil {
		out.Difficulty, _ = strconv.Atoi(m[1])
		args = reDiff.ReplaceAllString(args, "")
	}
	if m := reDate.FindStringSubmatch(args); m != nil {
		t, err := engine.ValidateDate(m[1])
		if err != nil {
			return addArgs{}, err
		}
		out.TaskDate = &t
		args = reDate.ReplaceAllString(args, "")
	}
	if m := reParent.FindStringSubmatch(args); m != nil {
		id, _ := strconv.ParseInt(m[1], 10, 64)
		out.ParentID = &id
		args = reParent.ReplaceAllString(args, "")
	}

	out.Title = strings.TrimSpace(reSpace.ReplaceAllString(args, " "))
	return out, nil
}

// command splits "/complete 12" into name "complete" and args "12". Non-slash
// text returns an empty name.
func command(text string) (name, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	name, args, _ = strings.Cut(text[1:], " ")
	return strings.ToLower(name), strings.TrimSpace(args)
}

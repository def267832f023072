package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"podinsights/internal/chat"
	"podinsights/internal/model"
	"podinsights/internal/util"
)

var ErrNothing = errors.New("no insights")

var columns = []string{
	"id", "title", "category", "score", "month", "publishDate", "podcast", "episode",
	"clipStart", "clipEnd", "sectors", "keywords", "saved", "archived", "viewed", "hasChat",
}

func ToCSV(path string, insights []model.Insight) error {
	if len(insights) == 0 {
		return ErrNothing
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, in := range insights {
		row := []string{
			in.ID, in.Title, in.Category, strconv.Itoa(in.Score), in.Month, in.PublishDate,
			in.Podcast, strconv.Itoa(in.Episode),
			util.Clock(in.Clip.Start), util.Clock(in.Clip.End),
			strings.Join(in.Sectors, "; "), strings.Join(in.Keywords, "; "),
			strconv.FormatBool(in.Saved), strconv.FormatBool(in.Archived),
			strconv.FormatBool(in.Viewed), strconv.FormatBool(in.HasChat),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ToNDJSON(path string, insights []model.Insight) error {
	if len(insights) == 0 {
		return ErrNothing
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	for _, in := range insights {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write dispatches on format: csv, json or ndjson.
func Write(format, path string, insights []model.Insight) error {
	switch strings.ToLower(format) {
	case "csv":
		return ToCSV(path, insights)
	case "json", "ndjson":
		return ToNDJSON(path, insights)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// ChatMarkdown writes a transcript with one section per message.
func ChatMarkdown(path string, c chat.Chat) error {
	return os.WriteFile(path, []byte(RenderChat(c)), 0o644)
}

func RenderChat(c chat.Chat) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	fmt.Fprintf(&b, "_%s, started %s_\n\n", c.ID, c.CreatedAt.Format("2006-01-02 15:04"))
	for _, m := range c.Messages {
		who := "Assistant"
		if m.Role == chat.RoleUser {
			who = "You"
		}
		fmt.Fprintf(&b, "**%s** (%s)\n\n%s\n\n", who, m.Time.Format("15:04"), m.Content)
	}
	return b.String()
}

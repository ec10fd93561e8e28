package printer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bethropolis/code-prompt/internal/utils"
	"github.com/bethropolis/code-prompt/internal/walker"
	"github.com/djherbis/times"
	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
)

// TimeLayout formats modification times in rendered output.
const TimeLayout = "2006-01-02 15:04:05"

// FileData is one selected file prepared for rendering.
type FileData struct {
	Path      string    // display path
	Name      string    // base name
	Extension string    // extension with the dot, as found
	Language  string    // code-fence language
	Size      int64     // bytes on disk
	Created   time.Time // birth time, or status change time; zero if unknown
	Modified  time.Time // last modification
	Content   string    // text, line-numbered when requested
}

// LoadOptions controls how selected files are read.
type LoadOptions struct {
	LineNumbers      bool
	SuppressComments bool
	Languages        map[string]string // extension overrides for InferLanguage
	Progress         io.Writer         // progress bar destination; nil disables it
	Logger           utils.Logger
}

// Load reads every selected file in order. Files that cannot be read or are
// not valid UTF-8 are reported as warnings and left out.
func Load(files []walker.EligibleFile, opts LoadOptions) []FileData {
	log := utils.OrNoop(opts.Logger)

	var (
		progress *mpb.Progress
		bar      *mpb.Bar
	)
	if opts.Progress != nil && len(files) > 0 {
		progress = mpb.New(mpb.WithOutput(opts.Progress), mpb.WithWidth(40))
		bar = progress.AddBar(int64(len(files)),
			mpb.PrependDecorators(
				decor.Name("Rendering "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	out := make([]FileData, 0, len(files))
	for _, f := range files {
		data, err := loadFile(f, opts)
		if bar != nil {
			bar.Increment()
		}
		if err != nil {
			log.Warn("Skipping file '%s' due to error: %v", f.DisplayPath, err)
			continue
		}
		out = append(out, data)
	}

	if progress != nil {
		progress.Wait()
	}
	return out
}

func loadFile(f walker.EligibleFile, opts LoadOptions) (FileData, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return FileData{}, fmt.Errorf("printer: read %s: %w", f.DisplayPath, err)
	}
	if !utf8.Valid(raw) {
		return FileData{}, fmt.Errorf("printer: %s is not valid UTF-8 text", f.DisplayPath)
	}

	name := filepath.Base(f.Path)
	language := InferLanguage(name, opts.Languages)

	content := string(raw)
	if opts.SuppressComments && language != UnknownLanguage {
		content = StripComments(content, language)
	}
	if opts.LineNumbers {
		content = AddLineNumbers(content)
	}

	return FileData{
		Path:      f.DisplayPath,
		Name:      name,
		Extension: filepath.Ext(name),
		Language:  language,
		Size:      f.Size,
		Created:   creationTime(f.Path, opts.Logger),
		Modified:  f.ModTime,
		Content:   content,
	}, nil
}

// creationTime returns the file's birth time where the platform records
// one, otherwise its status change time.
func creationTime(path string, log utils.Logger) time.Time {
	ts, err := times.Stat(path)
	if err != nil {
		utils.OrNoop(log).Debug("Cannot read timestamps of %s: %v", path, err)
		return time.Time{}
	}
	if ts.HasBirthTime() {
		return ts.BirthTime()
	}
	if ts.HasChangeTime() {
		return ts.ChangeTime()
	}
	return time.Time{}
}

// AddLineNumbers prefixes each line with its right-aligned number.
func AddLineNumbers(code string) string {
	lines := strings.Split(code, "\n")
	if strings.HasSuffix(code, "\n") {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 || code == "" {
		return ""
	}
	width := len(fmt.Sprint(len(lines)))
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*d | %s", width, i+1, strings.TrimSuffix(line, "\r"))
	}
	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

// templateValue exposes the file to templates under lower-case keys.
func (f FileData) templateValue() map[string]interface{} {
	return map[string]interface{}{
		"path":      f.Path,
		"name":      f.Name,
		"extension": f.Extension,
		"language":  f.Language,
		"size":      f.Size,
		"created":   formatTime(f.Created),
		"modified":  f.Modified.Format(TimeLayout),
		"content":   f.Content,
	}
}

package textsplit

import (
	"strings"
	"unicode/utf8"
)

// Splitter splits text into overlapping windows, splitting preferentially on
// structural boundaries (paragraph, then line, then word) and falling back to
// a hard character cut only when a window contains no boundary at all.
type Splitter struct {
	chunkSize int // target window size in runes
	overlap   int // runes carried over between consecutive windows
}

var separators = []string{"\n\n", "\n", " "}

func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 10000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// Split returns the ordered chunk sequence for text. No returned chunk is
// empty or whitespace-only.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, separators)
}

func (s *Splitter) split(text string, seps []string) []string {
	if utf8.RuneCountInString(text) <= s.chunkSize {
		return appendChunk(nil, text)
	}
	if len(seps) == 0 {
		return s.hardCut(text)
	}

	sep := seps[0]
	if !strings.Contains(text, sep) {
		return s.split(text, seps[1:])
	}

	// Oversized parts get split on finer boundaries first, then everything
	// is merged back into windows of up to chunkSize.
	var units []string
	for _, part := range strings.Split(text, sep) {
		if utf8.RuneCountInString(part) > s.chunkSize {
			units = append(units, s.split(part, seps[1:])...)
		} else {
			units = append(units, part)
		}
	}
	return s.merge(units, sep)
}

// merge joins small units into windows of up to chunkSize runes, retaining a
// tail of up to overlap runes between consecutive windows.
func (s *Splitter) merge(units []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)

	var chunks []string
	var window []string
	total := 0
	for _, u := range units {
		uLen := utf8.RuneCountInString(u)
		if len(window) > 0 && total+sepLen+uLen > s.chunkSize {
			chunks = appendChunk(chunks, strings.Join(window, sep))
			// Drain past the overlap, and further until the next unit
			// fits, so no emitted window exceeds chunkSize.
			for len(window) > 0 && (total > s.overlap || total+sepLen+uLen > s.chunkSize) {
				total -= utf8.RuneCountInString(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}
		window = append(window, u)
		total += uLen
		if len(window) > 1 {
			total += sepLen
		}
	}
	if len(window) > 0 {
		chunks = appendChunk(chunks, strings.Join(window, sep))
	}
	return chunks
}

// hardCut slices text into fixed-size rune windows advancing by
// chunkSize-overlap. Last resort for boundary-free text.
func (s *Splitter) hardCut(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap
	if step <= 0 {
		step = s.chunkSize
	}

	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = appendChunk(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

func appendChunk(chunks []string, chunk string) []string {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return chunks
	}
	return append(chunks, chunk)
}

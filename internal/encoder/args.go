package encoder

import (
	"strconv"
	"strings"
)

// Staging file name patterns understood by ffmpeg's image2 demuxer.
const (
	ImagePattern     = "img%010d.jpg"
	TimestampPattern = "ts%010d.png"
)

// Params are the fixed encoder settings for one output unit.
type Params struct {
	Size      string // WidthxHeight, empty keeps the source size
	Codec     string
	Quality   int
	FrameRate int
}

func commonArgs() []string {
	return []string{"-hide_banner", "-nostdin", "-y"}
}

func qualityArgs(q int) []string {
	if q <= 0 {
		return nil
	}
	return []string{"-q:v", strconv.Itoa(q)}
}

// ConcatArgs joins inputs with the concat protocol into one video at a fixed
// size and codec with audio dropped.
func ConcatArgs(inputs []string, p Params, output string) []string {
	args := commonArgs()
	args = append(args, "-i", "concat:"+strings.Join(inputs, "|"))
	if p.Size != "" {
		args = append(args, "-s", p.Size)
	}
	args = append(args, "-vcodec", p.Codec, "-strict", "-2", "-an")
	args = append(args, qualityArgs(p.Quality)...)
	return append(args, output)
}

// SequenceArgs encodes a numbered image sequence into a clip.
func SequenceArgs(pattern string, p Params, output string) []string {
	rate := strconv.Itoa(p.FrameRate)
	args := commonArgs()
	args = append(args, "-r", rate, "-i", pattern, "-r", rate, "-vcodec", p.Codec)
	args = append(args, qualityArgs(p.Quality)...)
	return append(args, output)
}

// TimestampTrackArgs encodes numbered overlay images into a clip that keeps
// the alpha channel.
func TimestampTrackArgs(pattern string, frameRate int, output string) []string {
	rate := strconv.Itoa(frameRate)
	args := commonArgs()
	return append(args, "-r", rate, "-i", pattern, "-r", rate, "-vcodec", "png", output)
}

// OverlayArgs composites the timestamp track over the bottom-left corner of
// the image sequence.
func OverlayArgs(pattern, track string, p Params, output string) []string {
	rate := strconv.Itoa(p.FrameRate)
	args := commonArgs()
	args = append(args,
		"-r", rate, "-i", pattern,
		"-r", rate, "-i", track,
		"-filter_complex", "[0:v][1:v]overlay=0:main_h-overlay_h",
		"-r", rate, "-vcodec", p.Codec,
	)
	args = append(args, qualityArgs(p.Quality)...)
	return append(args, output)
}

// Command renders binary and args as a single shell-quoted line for logs
// and dry runs. It is never executed through a shell.
func Command(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quote(binary))
	for _, arg := range args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./:%=+,@[]", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

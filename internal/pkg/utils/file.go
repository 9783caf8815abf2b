package utils

import (
	"mime"
	"strings"
)

var mimeExt = map[string]string{
	"audio/wav":   ".wav",
	"audio/wave":  ".wav",
	"audio/x-wav": ".wav",
	"audio/webm":  ".webm",
	"audio/mp4":   ".mp4",
	"audio/ogg":   ".ogg",
	"audio/mpeg":  ".mp3",
}

// ExtForMime returns audio file extension for mime type, .webm if unknown
func ExtForMime(mimeType string) string {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mt = strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	}
	if res, ok := mimeExt[strings.ToLower(mt)]; ok {
		return res
	}
	return ".webm"
}

// ParamTrue - returns true if string param indicates true value
func ParamTrue(prm string) bool {
	return strings.ToLower(prm) == "true" || prm == "1"
}

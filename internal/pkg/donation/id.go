package donation

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const idSuffixLen = 6

var (
	idSuffixMax = big.NewInt(36 * 36 * 36 * 36 * 36 * 36)
	idRegexp    = regexp.MustCompile(`^DON_\d{8}_[0-9A-Z]{6}$`)
)

// NewID generates donation ID DON_<YYYYMMDD>_<6 base36 chars>
func NewID(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, idSuffixMax)
	if err != nil {
		return "", fmt.Errorf("can't generate random: %w", err)
	}
	s := strings.ToUpper(strconv.FormatInt(n.Int64(), 36))
	s = strings.Repeat("0", idSuffixLen-len(s)) + s
	return fmt.Sprintf("DON_%s_%s", now.Format("20060102"), s), nil
}

// IsID checks the donation ID format
func IsID(s string) bool {
	return idRegexp.MatchString(s)
}

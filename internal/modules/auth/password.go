package auth

import (
	"fmt"
	"strings"
	"unicode"
)

const minPasswordLength = 8

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// maxSimilarity is the bigram overlap above which a password counts as
// too close to a user attribute.
const maxSimilarity = 0.7

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "passw0rd": {},
	"12345678": {}, "123456789": {}, "1234567890": {}, "87654321": {},
	"qwertyui": {}, "qwerty123": {}, "qwertyuiop": {}, "11111111": {},
	"iloveyou": {}, "sunshine": {}, "princess": {}, "football": {},
	"baseball": {}, "welcome1": {}, "letmein1": {}, "superman": {},
	"trustno1": {}, "abc12345": {}, "admin123": {}, "whatever": {},
	"starwars": {}, "dragon12": {}, "master12": {}, "monkey12": {},
}

// checkPassword applies the credential policy and returns the first problem
// found, or "" when the password is acceptable.
func checkPassword(password, username, email string) string {
	if len(password) < minPasswordLength {
		return fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Sprintf("This password is too long. It must contain at most %d bytes.", MaxPasswordBytes)
	}

	lower := strings.ToLower(password)

	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}
	for _, attr := range []struct{ name, value string }{
		{"username", username},
		{"email address", local},
	} {
		if tooSimilar(lower, strings.ToLower(attr.value)) {
			return fmt.Sprintf("The password is too similar to the %s.", attr.name)
		}
	}

	if _, ok := commonPasswords[lower]; ok {
		return "This password is too common."
	}

	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return "This password is entirely numeric."
	}

	return ""
}

func tooSimilar(password, attr string) bool {
	if len(attr) < 3 {
		return false
	}
	if strings.Contains(password, attr) || strings.Contains(attr, password) {
		return true
	}
	return diceCoefficient(password, attr) >= maxSimilarity
}

func diceCoefficient(a, b string) float64 {
	ba, bb := bigrams(a), bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	counts := make(map[string]int, len(ba))
	for _, g := range ba {
		counts[g]++
	}
	shared := 0
	for _, g := range bb {
		if counts[g] > 0 {
			counts[g]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ba)+len(bb))
}

func bigrams(s string) []string {
	r := []rune(s)
	if len(r) < 2 {
		return nil
	}
	out := make([]string, 0, len(r)-1)
	for i := 0; i < len(r)-1; i++ {
		out = append(out, string(r[i:i+2]))
	}
	return out
}

package tokens

import (
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
)

// lexFlags caches the boolean lexical attributes of a token text.
type lexFlags uint16

const (
	flagAlpha lexFlags = 1 << iota
	flagASCII
	flagDigit
	flagLower
	flagUpper
	flagTitle
	flagPunct
	flagSpace
	flagLikeNum
	flagLikeURL
	flagLikeEmail
)

var (
	// local part bounded by a lookahead; regexp2 runs .NET syntax
	emailRe = regexp2.MustCompile(
		`^(?=[^@\s]{1,64}@)[\w.+-]+@[\w-]+(?:\.[\w-]+)*\.[a-z]{2,}$`,
		regexp2.IgnoreCase)

	urlRe = regexp2.MustCompile(
		`^(?:(?:https?|ftp)://|www\.)[^\s/$.?#][^\s]*$`+
			`|^(?!.*@)[\w-]+(?:\.[\w-]+)*\.(?:com|org|net|edu|gov|io|co|uk|de)(?:[/:?#]\S*)?$`,
		regexp2.IgnoreCase)
)

var numberWords = map[string]bool{
	"zero": true, "one": true, "two": true, "three": true, "four": true,
	"five": true, "six": true, "seven": true, "eight": true, "nine": true,
	"ten": true, "eleven": true, "twelve": true, "thirteen": true,
	"fourteen": true, "fifteen": true, "sixteen": true, "seventeen": true,
	"eighteen": true, "nineteen": true, "twenty": true, "thirty": true,
	"forty": true, "fifty": true, "sixty": true, "seventy": true,
	"eighty": true, "ninety": true, "hundred": true, "thousand": true,
	"million": true, "billion": true, "trillion": true,
}

// lexicalFlags computes every boolean lexical attribute of text.
func lexicalFlags(text string) lexFlags {
	var f lexFlags
	if text == "" {
		return f
	}

	alpha, ascii, digit, punct, space := true, true, true, true, true
	hasCased := false
	for _, r := range text {
		alpha = alpha && unicode.IsLetter(r)
		ascii = ascii && r <= unicode.MaxASCII
		digit = digit && unicode.IsDigit(r)
		punct = punct && unicode.IsPunct(r)
		space = space && unicode.IsSpace(r)
		hasCased = hasCased || unicode.IsUpper(r) || unicode.IsLower(r)
	}
	set := func(cond bool, flag lexFlags) {
		if cond {
			f |= flag
		}
	}
	set(alpha, flagAlpha)
	set(ascii, flagASCII)
	set(digit, flagDigit)
	set(punct, flagPunct)
	set(space, flagSpace)
	set(hasCased && text == strings.ToLower(text), flagLower)
	set(hasCased && text == strings.ToUpper(text), flagUpper)
	set(isTitle(text), flagTitle)
	set(likeNum(text), flagLikeNum)
	set(matches(urlRe, text), flagLikeURL)
	set(matches(emailRe, text), flagLikeEmail)
	return f
}

func matches(re *regexp2.Regexp, text string) bool {
	ok, err := re.MatchString(text)
	return err == nil && ok
}

// isTitle reports whether every cased word of text starts with an upper
// case letter followed by lower case letters only.
func isTitle(text string) bool {
	cased := false
	prevCased := false
	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}

// likeNum reports whether text looks like a number: digits with optional
// sign and separators, a simple fraction, or an English number word.
func likeNum(text string) bool {
	text = strings.TrimLeft(text, "+-±~")
	if text == "" {
		return false
	}
	stripped := strings.NewReplacer(",", "", ".", "").Replace(text)
	if stripped != "" && allDigits(stripped) {
		return true
	}
	if num, den, ok := strings.Cut(text, "/"); ok && num != "" && den != "" && allDigits(num) && allDigits(den) {
		return true
	}
	return numberWords[strings.ToLower(text)]
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Shape maps text to its orthographic shape: upper case letters become
// "X", lower case letters "x", digits "d", other characters are kept, and
// runs of the same shape character are cut after four.
func Shape(text string) string {
	var sb strings.Builder
	var last rune
	run := 0
	for _, r := range text {
		var c rune
		switch {
		case unicode.IsUpper(r):
			c = 'X'
		case unicode.IsLetter(r):
			c = 'x'
		case unicode.IsDigit(r):
			c = 'd'
		default:
			c = r
		}
		if c == last {
			run++
		} else {
			last, run = c, 1
		}
		if run <= 4 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

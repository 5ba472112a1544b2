package normalize

import (
	"log/slog"
	"strings"

	"github.com/jdkato/prose/v2"
)

// irregularVerbs maps inflected forms of common irregular verbs to their
// base form. Checked before the suffix rules.
var irregularVerbs = map[string]string{
	"am": "be", "are": "be", "is": "be", "was": "be", "were": "be",
	"been": "be", "began": "begin", "begun": "begin", "bought": "buy",
	"brought": "bring", "built": "build", "came": "come", "chose": "choose",
	"chosen": "choose", "did": "do", "done": "do", "drew": "draw",
	"drawn": "draw", "drove": "drive", "driven": "drive", "ate": "eat",
	"eaten": "eat", "fell": "fall", "fallen": "fall", "felt": "feel",
	"found": "find", "flew": "fly", "flown": "fly", "forgot": "forget",
	"forgotten": "forget", "gave": "give", "given": "give", "went": "go",
	"gone": "go", "grew": "grow", "grown": "grow", "had": "have",
	"has": "have", "heard": "hear", "held": "hold", "kept": "keep",
	"knew": "know", "known": "know", "laid": "lay", "led": "lead",
	"left": "leave", "lent": "lend", "lay": "lie", "lain": "lie",
	"lost": "lose", "made": "make", "meant": "mean", "met": "meet",
	"paid": "pay", "put": "put", "ran": "run", "read": "read",
	"rose": "rise", "risen": "rise", "said": "say", "saw": "see",
	"seen": "see", "sold": "sell", "sent": "send", "set": "set",
	"showed": "show", "shown": "show", "sang": "sing", "sung": "sing",
	"sat": "sit", "slept": "sleep", "spoke": "speak", "spoken": "speak",
	"spent": "spend", "stood": "stand", "took": "take", "taken": "take",
	"taught": "teach", "told": "tell", "thought": "think", "threw": "throw",
	"thrown": "throw", "understood": "understand", "woke": "wake",
	"woken": "wake", "wore": "wear", "worn": "wear", "won": "win",
	"wrote": "write", "written": "write", "lying": "lie", "dying": "die",
	"tying": "tie",
}

// lemmatizeVerbs reduces verb tokens to their base form, leaving every other
// token untouched. Part-of-speech tags come from prose; a token is treated as
// a verb when its Penn Treebank tag starts with "VB". Tagging failures
// degrade to returning the tokens unchanged.
func lemmatizeVerbs(tokens []string) []string {
	if len(tokens) == 0 {
		return tokens
	}

	doc, err := prose.NewDocument(strings.Join(tokens, " "),
		prose.WithExtraction(false),
		prose.WithSegmentation(false))
	if err != nil {
		slog.Debug("pos tagging failed, skipping lemmatization", "error", err)
		return tokens
	}

	tagged := doc.Tokens()
	out := make([]string, 0, len(tokens))
	for i, tok := range tagged {
		if i >= len(tokens) {
			// tagger split differently than our whitespace tokens; trust our
			// own token list and stop consuming tags
			break
		}
		if strings.HasPrefix(tok.Tag, "VB") {
			out = append(out, verbLemma(tok.Text))
		} else {
			out = append(out, tok.Text)
		}
	}

	// tagger dropped tokens; pass the remainder through unchanged
	for i := len(out); i < len(tokens); i++ {
		out = append(out, tokens[i])
	}

	return out
}

// verbLemma applies the irregular-verb table and then morphy-style suffix
// rules to produce the base form of a verb.
func verbLemma(word string) string {
	if base, ok := irregularVerbs[word]; ok {
		return base
	}
	if len(word) <= 3 {
		return word
	}

	switch {
	case strings.HasSuffix(word, "ies"):
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ches"), strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "xes"), strings.HasSuffix(word, "zes"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ss"):
		return word
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "us"):
		return word[:len(word)-1]
	case strings.HasSuffix(word, "ied"):
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ed"):
		return undouble(word[:len(word)-2])
	case strings.HasSuffix(word, "ing") && len(word) > 4:
		return undouble(word[:len(word)-3])
	}

	return word
}

// undouble cleans up a stem left over after stripping -ed/-ing: a doubled
// final consonant loses one letter (stopp -> stop) and a
// consonant-vowel-consonant stem regains its silent e (hop -> hope is wrong
// in general, so the e is only restored when the stem would otherwise end in
// a pattern that never closes an English verb).
func undouble(stem string) string {
	n := len(stem)
	if n >= 2 && stem[n-1] == stem[n-2] && isConsonant(stem[n-1]) &&
		stem[n-1] != 'l' && stem[n-1] != 's' && stem[n-1] != 'z' {
		return stem[:n-1]
	}
	// stems ending in v, c, or a single z always carry a silent e
	// (receiv -> receive, produc -> produce, analyz -> analyze)
	if n >= 2 && (stem[n-1] == 'v' || stem[n-1] == 'c' ||
		(stem[n-1] == 'z' && stem[n-2] != 'z')) {
		return stem + "e"
	}
	if strings.HasSuffix(stem, "at") || strings.HasSuffix(stem, "iz") ||
		strings.HasSuffix(stem, "is") {
		return stem + "e"
	}
	return stem
}

func isConsonant(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	}
	return b >= 'a' && b <= 'z'
}

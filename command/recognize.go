package command

import (
	"regexp"
	"strings"
)

const (
	errMsgTooFewTokens = "command: too few tokens to classify line"
	errMsgEmptyBody    = "command: no message body after target"
)

// rgxSender pulls the author's nick out of a message prefix. Prefixes
// without a nick part, like server names, simply fail to match.
var rgxSender = regexp.MustCompile(`:(.*?)!`)

// Recognize classifies one space-split protocol line against the bot's
// current nick and returns the command it carries, if any. Lines that
// carry no command return a nil Command and a nil error. Lines too short
// to hold a message body return a *MalformedLineError.
func Recognize(self string, line []string) (*Command, error) {
	if len(line) < 3 {
		return nil, &MalformedLineError{
			Msg:  errMsgTooFewTokens,
			Line: strings.Join(line, " "),
		}
	}

	prefix, target := line[0], line[2]

	var sender string
	if match := rgxSender.FindStringSubmatch(prefix); match != nil {
		sender = match[1]
	}

	private := target == self

	body := line[3:]
	if len(body) == 0 {
		return nil, &MalformedLineError{
			Msg:  errMsgEmptyBody,
			Line: strings.Join(line, " "),
		}
	}

	body = append([]string(nil), body...)
	if len(body[0]) > 0 && body[0][0] == ':' {
		body[0] = body[0][1:]
	}

	name, mode := extract(self, private, body)
	if len(name) == 0 {
		return nil, nil
	}

	return &Command{
		Name:    name,
		Mode:    mode,
		Sender:  sender,
		Target:  target,
		Private: private,
	}, nil
}

// extract finds the command word in the message body. Private messages
// win over direct addressing, direct addressing wins over exclamation
// markers.
func extract(self string, private bool, body []string) (string, Mode) {
	switch {
	case private:
		var name string
		for _, word := range body {
			if len(word) > 0 && word[0] == '!' {
				name = word[1:]
			}
		}
		if len(name) == 0 {
			name = body[0]
		}
		return name, Private

	case strings.Contains(body[0], self):
		if len(body) < 2 {
			return "", None
		}
		name := body[1]
		// TODO: decide whether this should test for the ctcp delimiter
		// instead.
		if len(name) > 0 && name[0] == '1' {
			name = name[1:]
		}
		return name, Direct

	default:
		var name string
		mode := None
		for i, word := range body {
			if len(word) > 0 && word[0] == '!' {
				name = word[1:]
				if i == 0 {
					mode = ExclamationFirst
				} else {
					mode = Exclamation
				}
			}
		}
		return name, mode
	}
}

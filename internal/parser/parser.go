package parser

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sachinmurali/fansite-analytics-challenge/internal/config"
	"github.com/sachinmurali/fansite-analytics-challenge/pkg/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// MinFields is the fewest space-separated fields a usable line can have:
// host ident user [date zone] "method path protocol" status, bytes being optional.
const MinFields = 9

// LogParser handles parsing of common log format lines
type LogParser struct {
	layout string
	ascii  transform.Transformer
}

// NewLogParser creates a new log parser instance
func NewLogParser() *LogParser {
	return &LogParser{
		layout: config.TimestampLayout,
		ascii: runes.Remove(runes.Predicate(func(r rune) bool {
			return r > unicode.MaxASCII
		})),
	}
}

// ParseLine parses a single log line. The returned error explains why the
// line cannot be used; callers drop such lines.
func (p *LogParser) ParseLine(line string) (*models.LogRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Fields(line)
	if len(fields) < MinFields {
		return nil, errors.Errorf("expected at least %d fields, got %d", MinFields, len(fields))
	}
	host := fields[0]

	open := strings.IndexByte(line, '[')
	closing := strings.IndexByte(line, ']')
	if open < 0 || closing < open {
		return nil, errors.New("missing bracketed timestamp")
	}
	timestampText := line[open+1 : closing]
	timestamp, err := time.Parse(p.layout, timestampText)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse timestamp %q", timestampText)
	}

	rest := line[closing+1:]
	firstQuote := strings.IndexByte(rest, '"')
	lastQuote := strings.LastIndexByte(rest, '"')
	if firstQuote < 0 || lastQuote == firstQuote {
		return nil, errors.New("missing quoted request")
	}

	request, err := p.normalizeRequest(rest[firstQuote+1 : lastQuote])
	if err != nil {
		return nil, err
	}

	tail := strings.Fields(rest[lastQuote+1:])
	if len(tail) == 0 {
		return nil, errors.New("missing status")
	}

	return &models.LogRecord{
		Host:          host,
		Timestamp:     timestamp,
		TimestampText: timestampText,
		Request:       request,
		Status:        parseStatus(tail[0]),
		Bytes:         parseBytes(tail[1:]),
	}, nil
}

// normalizeRequest joins the request tokens with single spaces and reduces
// the method and protocol to ASCII.
func (p *LogParser) normalizeRequest(request string) (string, error) {
	tokens := strings.Fields(request)
	if len(tokens) == 0 {
		return "", nil
	}

	method, err := p.toASCII(tokens[0])
	if err != nil {
		return "", errors.Wrap(err, "invalid method")
	}
	tokens[0] = method

	if len(tokens) >= 3 {
		last := len(tokens) - 1
		protocol, err := p.toASCII(tokens[last])
		if err != nil {
			return "", errors.Wrap(err, "invalid protocol")
		}
		tokens[last] = protocol
	}

	return strings.Join(tokens, " "), nil
}

func (p *LogParser) toASCII(token string) (string, error) {
	if !utf8.ValidString(token) {
		return "", errors.Errorf("%q is not valid UTF-8", token)
	}
	out, _, err := transform.String(p.ascii, token)
	if err != nil {
		return "", errors.Wrapf(err, "failed to decode %q", token)
	}
	return out, nil
}

func parseStatus(s string) int {
	status, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return status
}

// parseBytes treats a missing, "-" or invalid byte count as 0
func parseBytes(fields []string) int64 {
	if len(fields) == 0 || fields[0] == "-" {
		return 0
	}
	n, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

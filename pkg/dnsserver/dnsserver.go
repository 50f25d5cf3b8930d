// Package dnsserver answers questions over DNS: a TXT query for
// "how-are-you.musaed.local." is asked as "how are you" and the answer comes
// back as TXT strings.
package dnsserver

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/miekg/dns"
	"github.com/rs/zerolog"

	"github.com/musaed-ai/musaed/pkg/chat"
	"github.com/musaed-ai/musaed/pkg/config"
	"github.com/musaed-ai/musaed/pkg/history"
	"github.com/musaed-ai/musaed/pkg/metrics"
	"github.com/musaed-ai/musaed/pkg/ratelimit"
)

const (
	maxAnswerBytes = 500
	txtChunkBytes  = 255
	answerTTL      = 60
)

// Server is a UDP DNS server backed by an Asker.
type Server struct {
	cfg     config.DNSConfig
	zone    string
	asker   chat.Asker
	history *history.Logger
	limiter *ratelimit.Limiter
	log     zerolog.Logger
	srv     *dns.Server
}

// New creates a Server. h and limiter may be nil.
func New(cfg config.DNSConfig, a chat.Asker, h *history.Logger, limiter *ratelimit.Limiter, log zerolog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		zone:    dns.Fqdn(strings.ToLower(cfg.Zone)),
		asker:   a,
		history: h,
		limiter: limiter,
		log:     log.With().Str("component", "dns").Logger(),
	}
	s.srv = &dns.Server{Addr: cfg.Listen, Net: "udp", Handler: s}
	return s
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	started := make(chan struct{})
	s.srv.NotifyStartedFunc = func() { close(started) }

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Listen).Str("zone", s.zone).Msg("dns listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("dns server: %w", err)
	case <-ctx.Done():
	}

	// Shutdown fails on a server that never started.
	select {
	case <-started:
	case err := <-errCh:
		return fmt.Errorf("dns server: %w", err)
	}
	s.log.Info().Msg("dns shutting down")
	if err := s.srv.ShutdownContext(context.Background()); err != nil {
		return fmt.Errorf("dns shutdown: %w", err)
	}
	return nil
}

// ServeDNS implements dns.Handler.
func (s *Server) ServeDNS(w dns.ResponseWriter, r *dns.Msg) {
	if !s.limiter.Allow(ratelimit.HostKey(w.RemoteAddr().String())) {
		metrics.RateLimitedTotal.WithLabelValues("dns").Inc()
		metrics.DNSQueriesTotal.WithLabelValues("limited").Inc()
		return
	}

	m := new(dns.Msg)
	m.SetReply(r)
	m.Authoritative = true

	for _, q := range r.Question {
		if q.Qtype != dns.TypeTXT {
			metrics.DNSQueriesTotal.WithLabelValues("ignored").Inc()
			continue
		}
		question, ok := s.questionFromName(q.Name)
		if !ok {
			metrics.DNSQueriesTotal.WithLabelValues("ignored").Inc()
			continue
		}

		ans, err := chat.Ask(s.asker, question)
		if err != nil {
			metrics.DNSQueriesTotal.WithLabelValues("empty").Inc()
			m.Answer = append(m.Answer, txtRecord(q.Name, chat.PromptEnterQuestion))
			continue
		}
		s.history.Record(context.Background(), "dns", ans)
		metrics.DNSQueriesTotal.WithLabelValues("answered").Inc()
		s.log.Debug().Str("name", q.Name).Str("source", string(ans.Source)).Msg("dns answer")
		m.Answer = append(m.Answer, txtRecord(q.Name, ans.Text))
	}

	if len(m.Answer) == 0 && len(r.Question) > 0 {
		m.Rcode = dns.RcodeNameError
	}
	if err := w.WriteMsg(m); err != nil {
		s.log.Warn().Err(err).Msg("write dns reply")
	}
}

// questionFromName strips the zone from name and turns hyphens into spaces.
// Names outside the zone are rejected.
func (s *Server) questionFromName(name string) (string, bool) {
	name = unescape(name)
	lower := strings.ToLower(name)
	if lower != s.zone && !strings.HasSuffix(lower, "."+s.zone) {
		return "", false
	}
	label := strings.TrimSuffix(name[:len(name)-len(s.zone)], ".")
	return strings.ReplaceAll(label, "-", " "), true
}

// unescape decodes the \DDD and \X escapes miekg/dns uses for bytes
// outside printable ASCII, so UTF-8 labels come back intact.
func unescape(name string) string {
	if !strings.Contains(name, `\`) {
		return name
	}
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '\\' || i+1 >= len(name) {
			b.WriteByte(c)
			continue
		}
		if i+3 < len(name) && isDigit(name[i+1]) && isDigit(name[i+2]) && isDigit(name[i+3]) {
			v := int(name[i+1]-'0')*100 + int(name[i+2]-'0')*10 + int(name[i+3]-'0')
			if v <= 255 {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(name[i+1])
		i++
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func txtRecord(name, text string) *dns.TXT {
	return &dns.TXT{
		Hdr: dns.RR_Header{
			Name:   name,
			Rrtype: dns.TypeTXT,
			Class:  dns.ClassINET,
			Ttl:    answerTTL,
		},
		Txt: chunk(truncate(text, maxAnswerBytes), txtChunkBytes),
	}
}

// truncate limits s to max bytes, ending in "..." when cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// chunk splits s into pieces of at most size bytes without splitting runes.
func chunk(s string, size int) []string {
	var out []string
	for len(s) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	if s != "" || len(out) == 0 {
		out = append(out, s)
	}
	return out
}

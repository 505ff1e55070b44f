package notify

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"taskflow/domain"
)

// Config sizes the delivery pool.
type Config struct {
	Workers        int
	Buffer         int
	HandoffTimeout time.Duration
	Timeout        time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Buffer < 0 {
		c.Buffer = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}

// Result resolves one Send. Err is nil when the webhook accepted the POST at
// the transport level.
type Result struct {
	Err *NotifyError
}

type job struct {
	url    string
	body   []byte
	result chan Result
}

// Notifier posts summaries to webhooks from a bounded worker pool. Every
// request is attempted exactly once.
type Notifier struct {
	cfg    Config
	client *http.Client
	log    *log.Logger
	jobs   chan job
	wg     sync.WaitGroup
	once   sync.Once
}

// New starts the worker pool. A nil client means http.DefaultClient.
func New(cfg Config, client *http.Client, logger *log.Logger) *Notifier {
	if logger == nil {
		panic("Logger is not initialized")
	}
	if client == nil {
		client = http.DefaultClient
	}
	cfg = cfg.withDefaults()
	n := &Notifier{
		cfg:    cfg,
		client: client,
		log:    logger,
		jobs:   make(chan job, cfg.Buffer),
	}
	for i := 0; i < cfg.Workers; i++ {
		n.wg.Add(1)
		go n.worker(i)
	}
	logger.Infof("notifier started, workers: %d, buffer: %d, timeout: %v, handoff: %v", cfg.Workers, cfg.Buffer, cfg.Timeout, cfg.HandoffTimeout)
	return n
}

// Close stops accepting work and waits for in-flight deliveries.
func (n *Notifier) Close() {
	n.once.Do(func() { close(n.jobs) })
	n.wg.Wait()
}

// Send hands the summary to the pool and returns at once. The channel yields
// exactly one Result.
func (n *Notifier) Send(url string, s Summary) <-chan Result {
	ch, _ := n.send(url, s)
	return ch
}

// CheckDeadlines builds the summary of tasks and sends it to url. The error
// is set when the request never reached a worker; the Result channel carries
// the same error in that case.
func (n *Notifier) CheckDeadlines(url string, tasks []domain.Task, now time.Time) (Summary, <-chan Result, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Summary{}, nil, ErrWebhookNotConfigured
	}
	s := BuildSummary(tasks, now)
	ch, err := n.send(url, s)
	return s, ch, err
}

func (n *Notifier) send(url string, s Summary) (<-chan Result, error) {
	result := make(chan Result, 1)
	fail := func(err error, outcome string) (<-chan Result, error) {
		requestsTotal.WithLabelValues(outcome).Inc()
		nerr := &NotifyError{URL: url, Err: err}
		result <- Result{Err: nerr}
		return result, nerr
	}

	body, err := sonic.Marshal(s)
	if err != nil {
		return fail(err, resultRejected)
	}

	ok, closed := n.tryEnqueue(job{url: url, body: body, result: result})
	if closed {
		return fail(ErrClosed, resultRejected)
	}
	if !ok {
		n.log.WithField("url", url).Warn("notifier saturated; request dropped")
		return fail(ErrSaturated, resultSaturated)
	}
	return result, nil
}

func (n *Notifier) worker(id int) {
	defer n.wg.Done()
	for j := range n.jobs {
		err := n.post(j.url, j.body)
		if err != nil {
			requestsTotal.WithLabelValues(resultFailed).Inc()
			n.log.WithError(err).WithFields(log.Fields{"url": j.url, "worker": id}).Error("webhook delivery failed")
			j.result <- Result{Err: &NotifyError{URL: j.url, Err: err}}
			continue
		}
		requestsTotal.WithLabelValues(resultSent).Inc()
		j.result <- Result{}
	}
}

func (n *Notifier) post(url string, body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), n.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.log.WithFields(log.Fields{"url": url, "status": resp.StatusCode}).Warn("webhook answered with non-2xx status")
	}
	return nil
}

func (n *Notifier) tryEnqueue(j job) (ok bool, closed bool) {
	if ok, closed := trySendNonBlocking(n.jobs, j); closed || ok {
		return ok, closed
	}
	if n.cfg.HandoffTimeout <= 0 {
		return false, false
	}

	timer := time.NewTimer(n.cfg.HandoffTimeout)
	defer timer.Stop()
	return sendWithTimer(n.jobs, j, timer.C)
}

func trySendNonBlocking(ch chan job, j job) (ok bool, closed bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			closed = true
		}
	}()

	select {
	case ch <- j:
		return true, false
	default:
		return false, false
	}
}

func sendWithTimer(ch chan job, j job, timer <-chan time.Time) (ok bool, closed bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			closed = true
		}
	}()

	select {
	case ch <- j:
		return true, false
	case <-timer:
		return false, false
	}
}

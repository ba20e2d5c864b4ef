// SPDX-License-Identifier: Apache-2.0

// Package harness drives the ingestion service end to end: login, resource
// setup, file processing configuration, a manual trigger and one look at the
// import logs. It is a smoke test for manual runs, not a reliability
// mechanism: there are no retries and the wait before reading the logs is a
// single fixed delay.
package harness

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Tellesy/payrep/internal/catalog"
	"github.com/Tellesy/payrep/internal/config"
	"github.com/Tellesy/payrep/internal/schema"
)

// State is a step of the workflow. Each transition is one request to the
// ingestion service.
type State string

const (
	StateNotAuthenticated State = "NOT_AUTHENTICATED"
	StateAuthenticated    State = "AUTHENTICATED"
	StateResourceReady    State = "RESOURCE_READY"
	StateConfigured       State = "CONFIGURED"
	StateTriggered        State = "TRIGGERED"
	StatePolling          State = "POLLING"
	StateReported         State = "REPORTED"
)

// recentLogLimit is how many of the matching import log entries are narrated.
const recentLogLimit = 5

// StepError reports the state at which the workflow stopped.
type StepError struct {
	State State
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow halted at %s: %v", e.State, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Result describes a completed run.
type Result struct {
	State           State
	Token           TokenInfo
	ResourceID      int64
	ResourceCreated bool
	ConfigIDs       []int64
	Triggers        []TriggerResult
	Logs            []ImportLog
	Report          *schema.AnalysisReport
	ReportPath      string
}

// Workflow runs the harness against one ingestion service session.
type Workflow struct {
	Client   *Client
	Analyzer *schema.Analyzer
	Catalog  *catalog.Catalog
	Config   config.Harness
	// Logger receives progress lines. Nil means log.Default().
	Logger *log.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	state State
}

// NewWorkflow creates a Workflow in the NOT_AUTHENTICATED state.
func NewWorkflow(client *Client, analyzer *schema.Analyzer, cat *catalog.Catalog, cfg config.Harness) *Workflow {
	return &Workflow{
		Client:   client,
		Analyzer: analyzer,
		Catalog:  cat,
		Config:   cfg,
		now:      time.Now,
		sleep:    sleepContext,
		state:    StateNotAuthenticated,
	}
}

// State returns the state the workflow has reached.
func (w *Workflow) State() State {
	return w.state
}

// Run executes every step in order. Any failure stops the run at the
// current state; nothing done by earlier steps is undone.
func (w *Workflow) Run(ctx context.Context) (*Result, error) {
	if w.state == "" {
		w.state = StateNotAuthenticated
	}
	res := &Result{State: w.state}

	if err := w.authenticate(ctx, res); err != nil {
		return res, w.halt(res, err)
	}
	if err := w.ensureResource(ctx, res); err != nil {
		return res, w.halt(res, err)
	}
	if err := w.configure(ctx, res); err != nil {
		return res, w.halt(res, err)
	}

	report, err := w.Analyzer.Run(ctx, w.Catalog.Source, w.Catalog.Pairs())
	if err != nil {
		return res, w.halt(res, err)
	}
	res.Report = report

	if err := w.trigger(ctx, res); err != nil {
		return res, w.halt(res, err)
	}
	if err := w.poll(ctx, res); err != nil {
		return res, w.halt(res, err)
	}

	res.Report.ImportLogs = summarize(res.Logs)
	path, err := schema.WriteReport(w.Config.OutputDir, res.Report)
	if err != nil {
		return res, w.halt(res, err)
	}
	res.ReportPath = path
	w.advance(res, StateReported)
	w.logger().Printf("[Harness] report saved to %s", path)
	return res, nil
}

func (w *Workflow) authenticate(ctx context.Context, res *Result) error {
	w.logger().Printf("[Harness] logging in as %s", w.Config.Username)
	token, err := w.Client.Login(ctx, w.Config.Username, w.Config.Password)
	if err != nil {
		return err
	}

	info, err := InspectToken(token)
	if err != nil {
		w.logger().Printf("[Harness] token is not a JWT, skipping claim checks: %v", err)
	} else {
		if info.Expired(w.clock()) {
			return fmt.Errorf("login returned a token that expired at %s", info.ExpiresAt.Format(time.RFC3339))
		}
		res.Token = info
	}

	w.advance(res, StateAuthenticated)
	return nil
}

// ensureResource reuses a bank or TPP with the source code when one exists,
// so reruns do not register it twice.
func (w *Workflow) ensureResource(ctx context.Context, res *Result) error {
	src := w.Catalog.Source
	banks, err := w.Client.ListBanks(ctx)
	if err != nil {
		return err
	}
	for _, b := range banks {
		if b.Code == src.Code {
			res.ResourceID = b.ID
			w.logger().Printf("[Harness] %s %s already exists with ID %d", w.Config.SourceType, src.Code, b.ID)
			w.advance(res, StateResourceReady)
			return nil
		}
	}

	created, err := w.Client.CreateBank(ctx, Bank{Code: src.Code, Name: src.Name, Type: w.Config.SourceType})
	if err != nil {
		return err
	}
	res.ResourceID = created.ID
	res.ResourceCreated = true
	w.logger().Printf("[Harness] %s %s created with ID %d", w.Config.SourceType, src.Code, created.ID)
	w.advance(res, StateResourceReady)
	return nil
}

func (w *Workflow) configure(ctx context.Context, res *Result) error {
	w.logger().Printf("[Harness] configuring file processing with schedule %q", w.Config.Schedule)
	for _, e := range w.Catalog.Entries {
		fileType := e.Label
		if fileType == "" {
			fileType = e.ReportType
		}
		created, err := w.Client.CreateFileConfig(ctx, FileConfig{
			BankOrTPPID:     res.ResourceID,
			DirectoryPath:   e.Directory(),
			FileNamePattern: e.FileNamePattern(),
			ScheduleTime:    w.Config.Schedule,
			FileType:        fileType,
		})
		if err != nil {
			return err
		}
		res.ConfigIDs = append(res.ConfigIDs, created.ID)
		w.logger().Printf("[Harness] configured %s processing (ID %d)", fileType, created.ID)
	}
	w.advance(res, StateConfigured)
	return nil
}

// trigger asks for processing of each distinct candidate directory.
func (w *Workflow) trigger(ctx context.Context, res *Result) error {
	seen := make(map[string]bool)
	for _, e := range w.Catalog.Entries {
		dir := e.Directory()
		if seen[dir] {
			continue
		}
		seen[dir] = true

		result, err := w.Client.TriggerProcessing(ctx, dir)
		if err != nil {
			return err
		}
		res.Triggers = append(res.Triggers, result)
		w.logger().Printf("[Harness] processing triggered for %s: %s", dir, result.Message)
	}
	w.advance(res, StateTriggered)
	return nil
}

// poll waits once and then reads the import logs once.
func (w *Workflow) poll(ctx context.Context, res *Result) error {
	w.advance(res, StatePolling)
	w.logger().Printf("[Harness] waiting %s for processing", w.Config.PollDelay)
	sleep := w.sleep
	if sleep == nil {
		sleep = sleepContext
	}
	if err := sleep(ctx, w.Config.PollDelay); err != nil {
		return err
	}

	logs, err := w.Client.ImportLogs(ctx)
	if err != nil {
		return err
	}
	res.Logs = filterLogs(logs, res.ConfigIDs)
	w.logger().Printf("[Harness] found %d import log entries, %d for this source", len(logs), len(res.Logs))

	recent := res.Logs
	if len(recent) > recentLogLimit {
		recent = recent[len(recent)-recentLogLimit:]
	}
	for _, l := range recent {
		w.logger().Printf("[Harness]   %s %s at %s", l.Status, l.FileName, l.ImportTime)
		if l.ErrorMessage != "" {
			w.logger().Printf("[Harness]     error: %s", l.ErrorMessage)
		}
	}
	return nil
}

func (w *Workflow) advance(res *Result, s State) {
	w.state = s
	res.State = s
}

func (w *Workflow) halt(res *Result, err error) error {
	res.State = w.state
	w.logger().Printf("[Harness] halted at %s: %v", w.state, err)
	return &StepError{State: w.state, Err: err}
}

func (w *Workflow) clock() time.Time {
	if w.now != nil {
		return w.now()
	}
	return time.Now()
}

func (w *Workflow) logger() *log.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return log.Default()
}

func filterLogs(logs []ImportLog, configIDs []int64) []ImportLog {
	ids := make(map[int64]bool, len(configIDs))
	for _, id := range configIDs {
		ids[id] = true
	}
	var out []ImportLog
	for _, l := range logs {
		if ids[l.ConfigID()] {
			out = append(out, l)
		}
	}
	return out
}

func summarize(logs []ImportLog) *schema.ImportLogSummary {
	s := &schema.ImportLogSummary{Total: len(logs)}
	for _, l := range logs {
		switch l.Status {
		case ImportSuccess:
			s.Success++
		case ImportFailed:
			s.Failed++
		case ImportPending:
			s.Pending++
		}
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

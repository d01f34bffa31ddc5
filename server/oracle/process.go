package oracle

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"bridge-arena/server/bridge"
)

// Process talks to an engine wrapper subprocess over line-delimited JSON on
// stdin/stdout: one request object per line, one response object per line.
// Each Process owns one subprocess, which is one engine instance.
type Process struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner
}

type wireRequest struct {
	Op    string   `json:"op"`
	Seat  *int     `json:"seat,omitempty"`
	Hand  []string `json:"hand,omitempty"`
	Deal  *int     `json:"dealer,omitempty"`
	Vul   *int     `json:"vul,omitempty"`
	Side  *int     `json:"side,omitempty"`
	Key   string   `json:"key,omitempty"`
	Value *int     `json:"value,omitempty"`
	Code  *int     `json:"code,omitempty"`
}

type wireResponse struct {
	OK      bool   `json:"ok"`
	Code    int    `json:"code"`
	Alert   bool   `json:"alert"`
	Meaning string `json:"meaning"`
	Error   string `json:"error"`
}

// NewProcess spawns the wrapper command. The command line is split on
// whitespace; the first token is the binary.
func NewProcess(command string) (*Process, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("oracle: empty command")
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("oracle: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("oracle: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("oracle: spawn %q: %w", fields[0], err)
	}
	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Process{cmd: cmd, stdin: stdin, scanner: sc}, nil
}

func (p *Process) call(req wireRequest) (wireResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line, err := json.Marshal(req)
	if err != nil {
		return wireResponse{}, err
	}
	if _, err := p.stdin.Write(append(line, '\n')); err != nil {
		return wireResponse{}, fmt.Errorf("oracle: write %s: %w", req.Op, err)
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return wireResponse{}, fmt.Errorf("oracle: read %s: %w", req.Op, err)
		}
		return wireResponse{}, fmt.Errorf("oracle: engine closed stream during %s", req.Op)
	}
	var resp wireResponse
	if err := json.Unmarshal(p.scanner.Bytes(), &resp); err != nil {
		return wireResponse{}, fmt.Errorf("oracle: bad response to %s: %w", req.Op, err)
	}
	if !resp.OK {
		msg := resp.Error
		if msg == "" {
			msg = "unknown engine error"
		}
		return wireResponse{}, fmt.Errorf("oracle: %s: %s", req.Op, msg)
	}
	return resp, nil
}

func intp(v int) *int { return &v }

func (p *Process) Seed(seat bridge.Seat, hand bridge.Hand, dealer bridge.Seat, vul bridge.Vulnerability) error {
	native := hand.InOrder(bridge.ClubFirst)
	_, err := p.call(wireRequest{
		Op:   "new_hand",
		Seat: intp(int(seat)),
		Hand: native.Suits[:],
		Deal: intp(int(dealer)),
		Vul:  intp(int(vul)),
	})
	return err
}

func (p *Process) SetScoring(mode bridge.Scoring) error {
	_, err := p.call(wireRequest{Op: "set_scoring", Value: intp(int(mode))})
	return err
}

func (p *Process) SetConvention(side bridge.Side, key string, on bool) error {
	v := 0
	if on {
		v = 1
	}
	_, err := p.call(wireRequest{Op: "set_convention", Side: intp(int(side)), Key: key, Value: intp(v)})
	return err
}

func (p *Process) SetSystemType(side bridge.Side, value int) error {
	_, err := p.call(wireRequest{Op: "set_system_type", Side: intp(int(side)), Value: intp(value)})
	return err
}

func (p *Process) SetOpponentType(side bridge.Side, value int) error {
	_, err := p.call(wireRequest{Op: "set_opponent_type", Side: intp(int(side)), Value: intp(value)})
	return err
}

func (p *Process) NextBid() (int, error) {
	resp, err := p.call(wireRequest{Op: "get_bid"})
	if err != nil {
		return 0, err
	}
	return resp.Code, nil
}

func (p *Process) Notify(seat bridge.Seat, code int) error {
	_, err := p.call(wireRequest{Op: "set_bid", Seat: intp(int(seat)), Code: intp(code)})
	return err
}

func (p *Process) Meaning(seat bridge.Seat) (bool, string, error) {
	resp, err := p.call(wireRequest{Op: "get_meaning", Seat: intp(int(seat))})
	if err != nil {
		return false, "", err
	}
	return resp.Alert, resp.Meaning, nil
}

// closeGrace bounds how long Close waits for the wrapper to exit on its
// own before killing it.
var closeGrace = 3 * time.Second

// Close shuts down the subprocess. The wrapper exits on stdin EOF; a
// wrapper that ignores EOF is killed after the grace period so teardown
// can never wedge, and Wait reaps it either way so repeated auctions do
// not leak zombies.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stdin != nil {
		p.stdin.Close()
		p.stdin = nil
	}
	if p.cmd == nil {
		return nil
	}
	cmd := p.cmd
	p.cmd = nil

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(closeGrace):
		_ = cmd.Process.Kill()
		return <-done
	}
}

// ProcessFactory returns a Factory spawning one wrapper subprocess per
// oracle instance.
func ProcessFactory(command string) Factory {
	return func() (Oracle, error) { return NewProcess(command) }
}

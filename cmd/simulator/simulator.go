package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SimulatorConfig holds the simulator configuration
type SimulatorConfig struct {
	ServerURL    string
	WebsocketURL string
	QueriesFile  string
	Rate         time.Duration
	Count        int
}

// Answer mirrors the assistant's routed-answer payload.
type Answer struct {
	Text       string `json:"text"`
	MatchedTag string `json:"matched_tag"`
	MatchedBy  string `json:"matched_by"`
	AudioURL   string `json:"audio_url"`
	ScreenText string `json:"screen_text"`
	Error      string `json:"error"`
}

// Simulator drives the assistant with scripted or interactive queries,
// over plain HTTP or the voice websocket.
type Simulator struct {
	config *SimulatorConfig
	log    *zap.Logger

	httpClient *http.Client
	conn       *websocket.Conn

	queries []string

	// Per-stage counters keyed by matched_by value.
	mu       sync.Mutex
	sent     int
	failed   int
	byStage  map[string]int
	stopChan chan struct{}
}

// Queries shipped as a smoke set when no file is given. Mixed scripts
// and registers on purpose; the normalizer has to cope with all of it.
var builtinQueries = []string{
	"хурлиман сағат неше болды",
	"hurliman waqıt qansha boldı",
	"бүгін ауа райы қандай",
	"сен кімсің",
	"не істей аласың",
	"рахмет саған",
	"қайырлы таң",
	"gibberish that matches nothing at all",
}

// NewSimulator creates a new query simulator
func NewSimulator(config *SimulatorConfig, log *zap.Logger) *Simulator {
	return &Simulator{
		config:     config,
		log:        log,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		byStage:    make(map[string]int),
		stopChan:   make(chan struct{}),
	}
}

// Connect loads the query script and, when a websocket URL is set,
// dials the voice endpoint.
func (s *Simulator) Connect() error {
	queries, err := s.loadQueries()
	if err != nil {
		return err
	}
	s.queries = queries

	if s.config.WebsocketURL == "" {
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(s.config.WebsocketURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	s.conn = conn
	s.log.Info("Connected to voice websocket", zap.String("url", s.config.WebsocketURL))
	return nil
}

func (s *Simulator) loadQueries() ([]string, error) {
	if s.config.QueriesFile == "" {
		return builtinQueries, nil
	}

	f, err := os.Open(s.config.QueriesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open queries file: %w", err)
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queries file: %w", err)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("queries file %s is empty", s.config.QueriesFile)
	}
	return queries, nil
}

// RunLoad sends the query script at the configured rate until Count is
// reached or the simulator is stopped.
func (s *Simulator) RunLoad() {
	ticker := time.NewTicker(s.config.Rate)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
		}

		query := s.queries[i%len(s.queries)]
		i++

		answer, err := s.Ask(query)
		if err != nil {
			s.recordFailure()
			s.log.Warn("Query failed", zap.String("query", query), zap.Error(err))
		} else {
			s.record(answer)
			s.log.Info("Query routed",
				zap.String("query", query),
				zap.String("matched_tag", answer.MatchedTag),
				zap.String("matched_by", answer.MatchedBy),
			)
		}

		if s.config.Count > 0 && i >= s.config.Count {
			return
		}
	}
}

// RunInteractive reads queries from stdin and prints routed answers.
func (s *Simulator) RunInteractive() {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == ":quit":
			return
		case line == ":stats":
			s.PrintStats()
		default:
			answer, err := s.Ask(line)
			if err != nil {
				s.recordFailure()
				fmt.Printf("error: %v\n", err)
			} else {
				s.record(answer)
				fmt.Printf("tag=%s via=%s audio=%s\n", answer.MatchedTag, answer.MatchedBy, answer.AudioURL)
			}
		}
		fmt.Print("> ")
	}
}

// Ask routes one query through the configured transport.
func (s *Simulator) Ask(query string) (*Answer, error) {
	if s.conn != nil {
		return s.askWebsocket(query)
	}
	return s.askHTTP(query)
}

func (s *Simulator) askHTTP(query string) (*Answer, error) {
	body, err := json.Marshal(map[string]string{"text": query})
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Post(s.config.ServerURL+"/api/ask-text", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, data)
	}

	var answer Answer
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, fmt.Errorf("malformed answer: %w", err)
	}
	return &answer, nil
}

func (s *Simulator) askWebsocket(query string) (*Answer, error) {
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(query)); err != nil {
		return nil, fmt.Errorf("failed to send query: %w", err)
	}

	s.conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read answer: %w", err)
	}

	var answer Answer
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, fmt.Errorf("malformed answer: %w", err)
	}
	if answer.Error != "" {
		return nil, fmt.Errorf("assistant error: %s", answer.Error)
	}
	return &answer, nil
}

func (s *Simulator) record(answer *Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent++
	s.byStage[answer.MatchedBy]++
}

func (s *Simulator) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent++
	s.failed++
}

// PrintStats prints session statistics.
func (s *Simulator) PrintStats() {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Printf("\nSession statistics\n")
	fmt.Printf("  queries sent: %d\n", s.sent)
	fmt.Printf("  failed:       %d\n", s.failed)
	for stage, n := range s.byStage {
		fmt.Printf("  via %-12s %d\n", stage+":", n)
	}
}

// Stop halts a running load loop.
func (s *Simulator) Stop() {
	close(s.stopChan)
}

// Close releases the websocket connection if one is open.
func (s *Simulator) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}

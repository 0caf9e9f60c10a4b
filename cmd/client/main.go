package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	http_movie "github.com/humanbelnik/matchmovie/internal/delivery/http/movie"
	http_room "github.com/humanbelnik/matchmovie/internal/delivery/http/room"
	ws_room "github.com/humanbelnik/matchmovie/internal/delivery/ws/room"
)

var errUsage = errors.New("usage")

const help = `commands:
  create <name>
  join <code> <name>
  configure <code> <seconds> <category,category>
  load <code> [category,category] [limit]
  start <code>
  vote <code> <movieId>
  finish <code>
  status <code>
  quit`

type Client struct {
	baseURL    string
	httpClient *http.Client
	wsConn     *websocket.Conn
	wsDone     chan struct{}
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		wsDone:     make(chan struct{}),
	}
}

func (c *Client) Connect() error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	scheme := "ws"
	if base.Scheme == "https" {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: base.Host, Path: base.Path + "/ws"}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("websocket connection failed: %w", err)
	}
	c.wsConn = conn
	go c.listen()
	return nil
}

func (c *Client) listen() {
	defer close(c.wsDone)
	for {
		var msg ws_room.Message
		if err := c.wsConn.ReadJSON(&msg); err != nil {
			fmt.Printf("connection closed: %v\n", err)
			return
		}
		fmt.Printf("<- %s %s\n", msg.Type, msg.Payload)
	}
}

func (c *Client) send(msg *ws_room.Message) error {
	if err := c.wsConn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.Type, err)
	}
	return nil
}

// candidates pulls movies from the catalog so the host does not type them in.
func (c *Client) candidates(categories string, limit int) (*http_movie.MoviesResponseDTO, error) {
	q := url.Values{}
	if categories != "" {
		q.Set("categories", categories)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var resp http_movie.MoviesResponseDTO
	if err := c.getJSON("/movies?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) status(code string) (*http_room.StatusResponseDTO, error) {
	var resp http_room.StatusResponseDTO
	if err := c.getJSON("/rooms/"+url.PathEscape(code), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) getJSON(path string, out any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) Close() {
	if c.wsConn != nil {
		c.wsConn.Close()
		<-c.wsDone
	}
}

// parseCommand turns a console line into a websocket message.
// Lines that need the HTTP API (load, status) are handled by the caller.
func parseCommand(line string) (*ws_room.Message, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errUsage
	}

	var (
		typ     string
		payload any
	)
	switch args := fields[1:]; fields[0] {
	case "create":
		if len(args) < 1 {
			return nil, errUsage
		}
		typ, payload = ws_room.CommandCreateRoom, ws_room.CreateRoomDTO{Name: strings.Join(args, " ")}
	case "join":
		if len(args) < 2 {
			return nil, errUsage
		}
		typ, payload = ws_room.CommandJoinRoom, ws_room.JoinRoomDTO{Code: args[0], Name: strings.Join(args[1:], " ")}
	case "configure":
		if len(args) != 3 {
			return nil, errUsage
		}
		seconds, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: round duration must be a number", errUsage)
		}
		typ, payload = ws_room.CommandConfigureRoom, ws_room.ConfigureRoomDTO{
			Code:                 args[0],
			RoundDurationSeconds: seconds,
			Categories:           strings.Split(args[2], ","),
		}
	case "start":
		if len(args) != 1 {
			return nil, errUsage
		}
		typ, payload = ws_room.CommandStartMatching, ws_room.RoomDTO{Code: args[0]}
	case "vote":
		if len(args) != 2 {
			return nil, errUsage
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: movie id must be a number", errUsage)
		}
		typ, payload = ws_room.CommandVoteMovie, ws_room.VoteMovieDTO{Code: args[0], MovieID: id}
	case "finish":
		if len(args) != 1 {
			return nil, errUsage
		}
		typ, payload = ws_room.CommandFinishRoom, ws_room.RoomDTO{Code: args[0]}
	default:
		return nil, errUsage
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &ws_room.Message{Type: typ, Payload: raw}, nil
}

func (c *Client) load(args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	var (
		categories string
		limit      int
	)
	if len(args) > 1 {
		categories = args[1]
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("%w: limit must be a number", errUsage)
		}
		limit = n
	}

	resp, err := c.candidates(categories, limit)
	if err != nil {
		return err
	}
	for _, m := range resp.Movies {
		fmt.Printf("   %d  %s (%.1f)\n", m.ID, m.Title, m.VoteAverage)
	}

	raw, err := json.Marshal(ws_room.AddCandidatesDTO{Code: args[0], Movies: resp.Movies})
	if err != nil {
		return err
	}
	return c.send(&ws_room.Message{Type: ws_room.CommandAddCandidates, Payload: raw})
}

func (c *Client) handle(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "load":
		return c.load(fields[1:])
	case "status":
		if len(fields) != 2 {
			return errUsage
		}
		st, err := c.status(fields[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s host=%s participants=%v candidates=%d\n",
			st.Code, st.Status, st.HostName, st.Participants, st.Candidates)
		return nil
	}

	msg, err := parseCommand(line)
	if err != nil {
		return err
	}
	return c.send(msg)
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080/api/v1", "server API base URL")
	flag.Parse()

	client := NewClient(*baseURL)
	if err := client.Connect(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Println("=== MatchMovie console ===")
	fmt.Println(help)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" {
			return
		}
		if err := client.handle(line); err != nil {
			if errors.Is(err, errUsage) {
				fmt.Println(help)
				continue
			}
			fmt.Printf("error: %v\n", err)
		}
	}
}

package desktop

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Runner runs an external command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

const (
	focusPollInterval = 150 * time.Millisecond
	windowWaitTimeout = 5 * time.Second
	closeWait         = 2 * time.Second
)

// X11 drives an X11 desktop through xdotool, xrandr, xprop and wmctrl.
// Windows are terminal emulators started from Terminal followed by the
// content argv of each WindowSpec.
type X11 struct {
	// Terminal is the terminal emulator argv prefix, e.g. ["xterm", "-e"].
	Terminal []string

	run Runner
}

// NewX11 creates an X11 window system that launches content in terminal.
func NewX11(terminal []string) *X11 {
	return &X11{Terminal: terminal, run: execRunner}
}

// CursorPosition returns the pointer position.
func (x *X11) CursorPosition(ctx context.Context) (Point, error) {
	out, err := x.run(ctx, "xdotool", "getmouselocation", "--shell")
	if err != nil {
		return Point{}, err
	}
	vars := parseShellVars(out)
	return Point{X: vars["X"], Y: vars["Y"]}, nil
}

// Monitors returns the connected monitors with their work areas.
func (x *X11) Monitors(ctx context.Context) ([]Monitor, error) {
	out, err := x.run(ctx, "xrandr", "--query")
	if err != nil {
		return nil, err
	}
	monitors := parseXrandr(out)
	if len(monitors) == 0 {
		return nil, ErrNoMonitors
	}

	workArea := Rect{}
	if out, err := x.run(ctx, "xprop", "-root", "-notype", "_NET_WORKAREA"); err == nil {
		workArea = parseWorkArea(out)
	}
	for i := range monitors {
		monitors[i].WorkArea = monitors[i].Bounds
		if area := monitors[i].Bounds.Intersect(workArea); !area.Empty() {
			monitors[i].WorkArea = area
		}
	}
	return monitors, nil
}

// Open starts the terminal for spec and waits for its window to map.
func (x *X11) Open(ctx context.Context, spec WindowSpec) (Window, error) {
	if len(x.Terminal) == 0 {
		return nil, fmt.Errorf("no terminal command configured")
	}
	argv := append(append([]string{}, x.Terminal...), spec.Command...)
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	w := &x11Window{
		x:      x,
		cmd:    cmd,
		events: make(chan Event, 4),
		done:   make(chan struct{}),
	}
	go w.wait()

	waitCtx, cancel := context.WithTimeout(ctx, windowWaitTimeout)
	defer cancel()
	id, err := x.findWindow(waitCtx, cmd.Process.Pid)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	w.id = id

	if err := w.Resize(spec.Size); err != nil {
		log.Printf("[desktop] resize %s: %v", id, err)
	}
	if err := w.Move(spec.Position); err != nil {
		log.Printf("[desktop] move %s: %v", id, err)
	}
	if state := wmState(spec); state != "" {
		if _, err := x.run(ctx, "wmctrl", "-i", "-r", id, "-b", "add,"+state); err != nil {
			log.Printf("[desktop] wmctrl %s: %v", id, err)
		}
	}
	if spec.Hidden {
		if err := w.Hide(); err != nil {
			log.Printf("[desktop] hide %s: %v", id, err)
		}
	}

	go w.pollFocus()
	return w, nil
}

func wmState(spec WindowSpec) string {
	var states []string
	if spec.AlwaysOnTop {
		states = append(states, "above")
	}
	if spec.SkipTaskbar {
		states = append(states, "skip_taskbar")
	}
	return strings.Join(states, ",")
}

// findWindow waits for a window owned by pid and returns its ID.
func (x *X11) findWindow(ctx context.Context, pid int) (string, error) {
	out, err := x.run(ctx, "xdotool", "search", "--sync", "--onlyvisible", "--pid", strconv.Itoa(pid))
	if err != nil {
		return "", fmt.Errorf("window for pid %d not found: %w", pid, err)
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "", fmt.Errorf("window for pid %d not found", pid)
	}
	return fields[len(fields)-1], nil
}

func (x *X11) activeWindow(ctx context.Context) string {
	out, err := x.run(ctx, "xdotool", "getactivewindow")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

type x11Window struct {
	x   *X11
	id  string
	cmd *exec.Cmd

	mu     sync.Mutex
	events chan Event
	closed bool // events closed

	done      chan struct{}
	closeOnce sync.Once
}

func (w *x11Window) ID() string { return w.id }

func (w *x11Window) xdotool(args ...string) error {
	_, err := w.x.run(context.Background(), "xdotool", args...)
	return err
}

func (w *x11Window) Position() (Point, error) {
	out, err := w.x.run(context.Background(), "xdotool", "getwindowgeometry", "--shell", w.id)
	if err != nil {
		return Point{}, err
	}
	vars := parseShellVars(out)
	return Point{X: vars["X"], Y: vars["Y"]}, nil
}

func (w *x11Window) Move(p Point) error {
	return w.xdotool("windowmove", w.id, strconv.Itoa(p.X), strconv.Itoa(p.Y))
}

func (w *x11Window) Resize(s Size) error {
	return w.xdotool("windowsize", w.id, strconv.Itoa(s.W), strconv.Itoa(s.H))
}

func (w *x11Window) Focus() error {
	return w.xdotool("windowactivate", "--sync", w.id)
}

func (w *x11Window) Show() error {
	if err := w.xdotool("windowmap", "--sync", w.id); err != nil {
		return err
	}
	return w.xdotool("windowraise", w.id)
}

func (w *x11Window) Hide() error {
	return w.xdotool("windowunmap", w.id)
}

func (w *x11Window) Minimize() error {
	return w.xdotool("windowminimize", w.id)
}

func (w *x11Window) Visible() bool {
	out, err := w.x.run(context.Background(), "xwininfo", "-id", w.id)
	if err != nil {
		return false
	}
	return bytes.Contains(out, []byte("Map State: IsViewable"))
}

func (w *x11Window) Focused() bool {
	return w.x.activeWindow(context.Background()) == w.id
}

func (w *x11Window) Close() error {
	var err error
	w.closeOnce.Do(func() {
		select {
		case <-w.done:
			return
		default:
		}
		if w.cmd.Process != nil {
			err = w.cmd.Process.Kill()
		}
		// The window stays mapped until the process has exited.
		select {
		case <-w.done:
		case <-time.After(closeWait):
			log.Printf("[desktop] window %s still running after kill", w.id)
		}
	})
	return err
}

func (w *x11Window) Events() <-chan Event { return w.events }

func (w *x11Window) send(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.events <- ev:
	default:
	}
}

func (w *x11Window) wait() {
	err := w.cmd.Wait()
	close(w.done)
	w.send(Event{Type: EventExited, Err: err})

	w.mu.Lock()
	w.closed = true
	close(w.events)
	w.mu.Unlock()
}

// pollFocus emits EventBlur when the window loses focus after having had it.
func (w *x11Window) pollFocus() {
	ticker := time.NewTicker(focusPollInterval)
	defer ticker.Stop()

	hadFocus := false
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			focused := w.x.activeWindow(context.Background()) == w.id
			if hadFocus && !focused {
				w.send(Event{Type: EventBlur})
			}
			hadFocus = focused
		}
	}
}

// parseShellVars parses KEY=123 lines as printed by xdotool --shell.
func parseShellVars(out []byte) map[string]int {
	vars := make(map[string]int)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(value); err == nil {
			vars[key] = n
		}
	}
	return vars
}

var xrandrMonitor = regexp.MustCompile(`^(\S+) connected (?:primary )?(\d+)x(\d+)\+(-?\d+)\+(-?\d+)`)

// parseXrandr extracts connected, active monitors from xrandr --query.
func parseXrandr(out []byte) []Monitor {
	var monitors []Monitor
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := xrandrMonitor.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		w, _ := strconv.Atoi(m[2])
		h, _ := strconv.Atoi(m[3])
		x, _ := strconv.Atoi(m[4])
		y, _ := strconv.Atoi(m[5])
		bounds := Rect{X: x, Y: y, W: w, H: h}
		monitors = append(monitors, Monitor{Name: m[1], Bounds: bounds, WorkArea: bounds})
	}
	return monitors
}

// parseWorkArea reads the first rectangle of _NET_WORKAREA.
func parseWorkArea(out []byte) Rect {
	_, values, ok := strings.Cut(string(out), "=")
	if !ok {
		return Rect{}
	}
	parts := strings.Split(values, ",")
	if len(parts) < 4 {
		return Rect{}
	}
	var n [4]int
	for i := 0; i < 4; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return Rect{}
		}
		n[i] = v
	}
	return Rect{X: n[0], Y: n[1], W: n[2], H: n[3]}
}

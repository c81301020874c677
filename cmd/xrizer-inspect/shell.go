package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/testerpester2/xrizer/internal/testharness/fakert"
	"github.com/testerpester2/xrizer/pkg/action"
	"github.com/testerpester2/xrizer/pkg/backend"
	"github.com/testerpester2/xrizer/pkg/legacy"
	"github.com/testerpester2/xrizer/pkg/runtime"
)

// shell is the interactive command loop.
type shell struct {
	session *runtime.Session
	rt      *fakert.FakeRuntime
	rl      *readline.Instance

	nextEntity backend.EntityID
}

func newShell(session *runtime.Session, rt *fakert.FakeRuntime) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "xrizer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &shell{
		session:    session,
		rt:         rt,
		rl:         rl,
		nextEntity: 1,
	}, nil
}

// run starts the interactive command loop.
func (s *shell) run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "attach":
			s.cmdAttach(args)

		case "detach":
			s.cmdDetach(args)

		case "set":
			s.cmdSet(args)

		case "sync":
			s.cmdSync(ctx)

		case "declare":
			s.cmdDeclare(args)

		case "devices", "ls":
			s.cmdDevices()

		case "read", "r":
			s.cmdRead(args)

		case "controller":
			s.cmdController(args)

		case "pose":
			s.cmdPose(ctx, args)

		case "recenter":
			s.cmdRecenter(ctx)

		case "haptic":
			s.cmdHaptic(ctx, args)

		case "props":
			s.cmdProps(args)

		case "state":
			s.cmdState()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
xrizer inspector commands:
  Simulated backend:
    attach <hmd|left|right> [profile]     - Connect a device (queued until sync)
    detach <index>                        - Disconnect a device
    set <action> <value> [value2]         - Script an action value (bool/float)

  Session:
    sync                                  - Run one sync cycle
    declare <set> [set...]                - Declare active action sets
    recenter                              - Recenter the seated origin
    haptic <index>                        - Fire a haptic pulse

  Inspection:
    devices                               - List connected devices
    read <index> <button> <click|touch|value> - Poll a legacy input
    controller <index>                    - Packed legacy controller state
    pose <index> <seated|standing|raw>    - Resolve a device pose
    props <index>                         - Dump device properties
    state                                 - Session and engine state

  quit - Exit`)
}

// profileForArg maps a shorthand to an interaction profile path.
func profileForArg(arg string) string {
	switch arg {
	case "", "knuckles", "index":
		return "/interaction_profiles/valve/index_controller"
	case "vive":
		return "/interaction_profiles/htc/vive_controller"
	case "touch", "oculus":
		return "/interaction_profiles/oculus/touch_controller"
	case "simple":
		return "/interaction_profiles/khr/simple_controller"
	default:
		return arg
	}
}

func (s *shell) cmdAttach(args []string) {
	out := s.rl.Stdout()
	if len(args) < 1 {
		fmt.Fprintln(out, "usage: attach <hmd|left|right> [profile]")
		return
	}

	ev := backend.DeviceEvent{
		Kind:   backend.DeviceAttached,
		Entity: s.nextEntity,
	}
	switch args[0] {
	case "hmd":
		ev.Class = backend.ClassHMD
		ev.Role = backend.RoleHead
	case "left":
		ev.Class = backend.ClassController
		ev.Role = backend.RoleLeft
	case "right":
		ev.Class = backend.ClassController
		ev.Role = backend.RoleRight
	default:
		fmt.Fprintf(out, "unknown device kind %q\n", args[0])
		return
	}
	if ev.Class == backend.ClassController {
		profile := ""
		if len(args) > 1 {
			profile = args[1]
		}
		ev.Profile = profileForArg(profile)
	}

	s.nextEntity++
	s.rt.Emit(ev)
	fmt.Fprintf(out, "queued attach: entity=%d class=%s (applies on next sync)\n", ev.Entity, ev.Class)
}

func (s *shell) cmdDetach(args []string) {
	out := s.rl.Stdout()
	index, ok := s.parseIndex(args, "detach <index>")
	if !ok {
		return
	}
	slot, err := s.session.Registry().Get(index)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	s.rt.Emit(backend.DeviceEvent{Kind: backend.DeviceDetached, Entity: slot.Entity})
	fmt.Fprintf(out, "queued detach: entity=%d (applies on next sync)\n", slot.Entity)
}

func (s *shell) cmdSet(args []string) {
	out := s.rl.Stdout()
	if len(args) < 2 {
		fmt.Fprintln(out, "usage: set <action> <value> [value2]")
		return
	}
	name := args[0]

	state := backend.ActionState{Active: true, UpdatedAt: time.Now()}
	switch args[1] {
	case "true", "on":
		state.Bool = true
	case "false", "off":
	default:
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		state.X = x
		state.Bool = x > 0.5
		if len(args) > 2 {
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return
			}
			state.Y = y
		}
	}
	s.rt.SetActionState(name, backend.RoleAny, state)
	fmt.Fprintf(out, "scripted %s (visible after next sync)\n", name)
}

func (s *shell) cmdSync(ctx context.Context) {
	out := s.rl.Stdout()
	if err := s.session.Sync(ctx); err != nil {
		fmt.Fprintf(out, "sync failed: %v\n", err)
		return
	}
	if snap := s.session.Engine().Snapshot(); snap != nil {
		fmt.Fprintf(out, "synced: frame=%d actions=%d\n", snap.Frame, snap.Len())
	} else {
		fmt.Fprintln(out, "synced: no snapshot yet")
	}
}

func (s *shell) cmdDeclare(args []string) {
	out := s.rl.Stdout()
	if len(args) < 1 {
		fmt.Fprintln(out, "usage: declare <set> [set...]")
		return
	}
	sets := make([]action.ActiveSet, 0, len(args))
	for _, a := range args {
		sets = append(sets, action.ActiveSet{Set: a})
	}
	if err := s.session.Engine().DeclareActiveSets(sets); err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "declared %d set(s)\n", len(sets))
}

func (s *shell) cmdDevices() {
	out := s.rl.Stdout()
	slots := s.session.Registry().Connected()
	if len(slots) == 0 {
		fmt.Fprintln(out, "no devices connected")
		return
	}
	for _, slot := range slots {
		fmt.Fprintf(out, "  [%d] %s entity=%d role=%s profile=%s serial=%s\n",
			slot.Index, slot.Class, slot.Entity, slot.Role, slot.Profile, slot.Serial)
	}
}

var buttonNames = map[string]legacy.ButtonID{
	"system":   legacy.ButtonSystem,
	"menu":     legacy.ButtonApplicationMenu,
	"grip":     legacy.ButtonGrip,
	"a":        legacy.ButtonA,
	"axis0":    legacy.ButtonAxis0,
	"touchpad": legacy.ButtonTouchpad,
	"axis1":    legacy.ButtonAxis1,
	"trigger":  legacy.ButtonTrigger,
	"axis2":    legacy.ButtonAxis2,
}

func (s *shell) cmdRead(args []string) {
	out := s.rl.Stdout()
	if len(args) < 3 {
		fmt.Fprintln(out, "usage: read <index> <button> <click|touch|value>")
		return
	}
	index, ok := s.parseIndex(args[:1], "")
	if !ok {
		return
	}
	button, ok := buttonNames[strings.ToLower(args[1])]
	if !ok {
		fmt.Fprintf(out, "unknown button %q\n", args[1])
		return
	}
	var edge legacy.EdgeType
	switch strings.ToLower(args[2]) {
	case "click", "press":
		edge = legacy.EdgePress
	case "touch":
		edge = legacy.EdgeTouch
	case "value":
		edge = legacy.EdgeValue
	default:
		fmt.Fprintf(out, "unknown edge %q\n", args[2])
		return
	}

	st, err := s.session.Legacy().Read(index, button, edge)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	switch edge {
	case legacy.EdgeValue:
		fmt.Fprintf(out, "value=(%.3f, %.3f) active=%v stale=%v\n", st.X, st.Y, st.Active, st.Stale)
	default:
		fmt.Fprintf(out, "bool=%v changed=%v active=%v stale=%v\n", st.Bool, st.Changed, st.Active, st.Stale)
	}
}

func (s *shell) cmdController(args []string) {
	out := s.rl.Stdout()
	index, ok := s.parseIndex(args, "controller <index>")
	if !ok {
		return
	}
	cs, err := s.session.Legacy().ControllerState(index)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "packet=%d pressed=%#x touched=%#x\n", cs.PacketNum, cs.ButtonPressed, cs.ButtonTouched)
	for i, axis := range cs.Axes {
		if axis[0] != 0 || axis[1] != 0 {
			fmt.Fprintf(out, "  axis%d = (%.3f, %.3f)\n", i, axis[0], axis[1])
		}
	}
}

func (s *shell) cmdPose(ctx context.Context, args []string) {
	out := s.rl.Stdout()
	if len(args) < 2 {
		fmt.Fprintln(out, "usage: pose <index> <seated|standing|raw>")
		return
	}
	index, ok := s.parseIndex(args[:1], "")
	if !ok {
		return
	}
	var origin backend.TrackingOrigin
	switch strings.ToLower(args[1]) {
	case "seated":
		origin = backend.OriginSeated
	case "standing":
		origin = backend.OriginStanding
	case "raw":
		origin = backend.OriginRaw
	default:
		fmt.Fprintf(out, "unknown origin %q\n", args[1])
		return
	}

	sample, err := s.session.Resolver().PoseFor(ctx, index, origin, time.Now())
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	p := sample.Transform.Position
	q := sample.Transform.Rotation
	fmt.Fprintf(out, "pos=(%.3f, %.3f, %.3f) rot=(%.3f, %.3f, %.3f, %.3f) validity=%s\n",
		p.X, p.Y, p.Z, q.W, q.X, q.Y, q.Z, sample.Validity)
}

func (s *shell) cmdRecenter(ctx context.Context) {
	out := s.rl.Stdout()
	if err := s.session.Recenter(ctx, backend.OriginSeated); err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(out, "seated origin recentered")
}

func (s *shell) cmdHaptic(ctx context.Context, args []string) {
	out := s.rl.Stdout()
	index, ok := s.parseIndex(args, "haptic <index>")
	if !ok {
		return
	}
	if err := s.session.TriggerHaptic(ctx, index, 50*time.Millisecond, 160, 1); err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(out, "pulse sent")
}

func (s *shell) cmdProps(args []string) {
	out := s.rl.Stdout()
	index, ok := s.parseIndex(args, "props <index>")
	if !ok {
		return
	}
	props := s.session.Properties()
	keys, err := props.Keys(index)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	for _, key := range keys {
		if v, err := props.GetString(index, key); err == nil {
			fmt.Fprintf(out, "  %-32s %q\n", key, v)
			continue
		}
		if v, err := props.GetBool(index, key); err == nil {
			fmt.Fprintf(out, "  %-32s %v\n", key, v)
			continue
		}
		if v, err := props.GetUint64(index, key); err == nil {
			fmt.Fprintf(out, "  %-32s %#x\n", key, v)
			continue
		}
		if v, err := props.GetInt32(index, key); err == nil {
			fmt.Fprintf(out, "  %-32s %d\n", key, v)
			continue
		}
		if v, err := props.GetFloat(index, key); err == nil {
			fmt.Fprintf(out, "  %-32s %g\n", key, v)
			continue
		}
		fmt.Fprintf(out, "  %-32s (not set)\n", key)
	}
}

func (s *shell) cmdState() {
	out := s.rl.Stdout()
	fmt.Fprintf(out, "session: %s (%s)\n", s.session.ID(), s.session.State())
	fmt.Fprintf(out, "engine:  %s\n", s.session.Engine().State())
	if snap := s.session.Engine().Snapshot(); snap != nil {
		fmt.Fprintf(out, "snapshot: frame=%d at=%s actions=%d\n",
			snap.Frame, snap.At.Format(time.RFC3339Nano), snap.Len())
	} else {
		fmt.Fprintln(out, "snapshot: none")
	}
}

// parseIndex parses a device index argument, printing usage on failure.
func (s *shell) parseIndex(args []string, usage string) (uint32, bool) {
	out := s.rl.Stdout()
	if len(args) < 1 {
		if usage != "" {
			fmt.Fprintln(out, "usage: "+usage)
		}
		return 0, false
	}
	v, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Fprintf(out, "invalid device index %q\n", args[0])
		return 0, false
	}
	return uint32(v), true
}

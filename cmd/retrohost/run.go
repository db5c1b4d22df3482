package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/retrohost/config"
	"github.com/reglet-dev/retrohost/content"
	"github.com/reglet-dev/retrohost/host"
	"github.com/reglet-dev/retrohost/infrastructure/native"
)

type runOptions struct {
	frames    int
	entry     string
	subsystem string
	loadState string
	saveState string
}

func newRunCommand(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run [content...]",
		Short: "Load content into the core and run frames",
		Long:  `Load content into the core and run frames until the core shuts down,
the frame limit is reached or the process is interrupted.

Without content the core is started in no-game mode. With --subsystem every
argument is one item of the subsystem, in the order the core declares them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.frames, "frames", "n", 0, "stop after this many frames (0 runs until shutdown)")
	flags.StringVar(&opts.entry, "entry", "", "zip archive entry to load from the content archive")
	flags.StringVar(&opts.subsystem, "subsystem", "", "subsystem ident or id to load the content through")
	flags.StringVar(&opts.loadState, "load-state", "", "restore this state file after loading")
	flags.StringVar(&opts.saveState, "save-state", "", "write a state file when the run ends")
	return cmd
}

func (a *app) run(ctx context.Context, args []string, opts runOptions) error {
	if a.cfg.Core == "" {
		return errors.New("no core configured")
	}
	if opts.frames < 0 {
		return fmt.Errorf("invalid frame count %d", opts.frames)
	}
	if opts.subsystem == "" && len(args) > 1 {
		return errors.New("more than one content item requires --subsystem")
	}

	sess, stack, err := a.openSessionStack()
	if err != nil {
		return err
	}
	defer sess.Close()

	sources := make([]content.Source, 0, len(args))
	for _, arg := range args {
		sources = append(sources, sourceFor(arg, opts.entry))
	}
	if opts.subsystem != "" {
		err = sess.LoadSubsystem(opts.subsystem, sources)
	} else if len(sources) == 1 {
		err = sess.LoadContent(sources[0])
	} else {
		err = sess.LoadContent(content.NoSource{})
	}
	if err != nil {
		return err
	}

	if opts.loadState != "" {
		if err := loadStateFile(sess, opts.loadState); err != nil {
			return err
		}
	}

	ran, runErr := runLoop(ctx, sess, stack, opts.frames)
	total, dupes := stack.Video.Frames()
	a.logger.Info("run finished", "frames", ran, "video_frames", total, "dupes", dupes, "audio_dropped", stack.Audio.Dropped())

	if opts.saveState != "" {
		if err := saveStateFile(sess, opts.saveState); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

// runLoop runs frames until limit, a shutdown request or cancellation. A
// limit of 0 means no limit. Audio is drained after every frame.
func runLoop(ctx context.Context, sess *host.Session, stack *config.Stack, limit int) (int, error) {
	n := 0
	for limit == 0 || n < limit {
		err := sess.Run(ctx)
		switch {
		case err == nil:
		case errors.Is(err, host.ErrShutdown):
			return n + 1, nil
		case errors.Is(err, context.Canceled):
			return n, nil
		default:
			return n, err
		}
		n++
		stack.Audio.Drain()
	}
	return n, nil
}

func sourceFor(arg, entry string) content.Source {
	if entry != "" {
		return content.ArchiveSource{Archive: arg, Entry: entry}
	}
	return content.PathSource{Path: arg}
}

func loadStateFile(sess *host.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer f.Close()
	return sess.LoadStateFile(f)
}

func saveStateFile(sess *host.Session, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return sess.SaveStateFile(f)
}

// openSession loads the configured core and initializes a session over it.
func (a *app) openSession() (*host.Session, error) {
	sess, _, err := a.openSessionStack()
	return sess, err
}

func (a *app) openSessionStack() (*host.Session, *config.Stack, error) {
	lib, err := native.Open(a.cfg.Core)
	if err != nil {
		return nil, nil, err
	}

	stack := a.cfg.Build(a.logger)
	opts := append(stack.SessionOptions(a.logger), host.WithInterfaces(native.NewThunks(a.logger)))
	sess, err := host.NewSession(lib, opts...)
	if err != nil {
		_ = lib.Close()
		return nil, nil, err
	}
	if err := sess.Init(); err != nil {
		_ = sess.Close()
		return nil, nil, err
	}
	a.logger.Debug("core ready", "path", lib.Path(), "session", sess.ID())
	return sess, stack, nil
}

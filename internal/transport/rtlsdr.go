package transport

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// RTLSDR starts a receiver subprocess (rtl_adsb, dump1090 --raw, or
// equivalent) and streams its stdout byte-for-byte into the sink. The
// subprocess is expected to emit the `*<hex>;` ASCII framing protocol; the
// sink is handed raw bytes so the framing package decides what they mean.
type RTLSDR struct {
	ExecPath string
	Args     []string
	Log      *logrus.Logger
}

func (t *RTLSDR) Run(ctx context.Context, sink Sink) error {
	cmd := exec.CommandContext(ctx, t.ExecPath, t.Args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("rtlsdr transport: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("rtlsdr transport: start %s: %w", t.ExecPath, err)
	}

	t.Log.WithField("exec", t.ExecPath).Info("rtlsdr transport: receiver started")

	reader := bufio.NewReaderSize(stdout, 4096)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}
		sink(b)
	}

	if werr := cmd.Wait(); werr != nil && ctx.Err() == nil {
		return fmt.Errorf("rtlsdr transport: receiver exited: %w", werr)
	}
	return ctx.Err()
}

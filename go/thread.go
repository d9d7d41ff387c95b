package qiling

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/EtchProject/qiling/go/models"
	"github.com/EtchProject/qiling/go/output"
)

// Thread is an emulated guest thread: its own trace destination and descriptor table.
type Thread struct {
	ID int

	log    *logrus.Logger
	closer io.Closer
	fds    models.FileDesState
}

func (t *Thread) Logger() *logrus.Logger {
	if t == nil {
		return nil
	}
	return t.log
}

func (t *Thread) String() string {
	return fmt.Sprintf("<Thread %d>", t.ID)
}

func (t *Thread) close() error {
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}

// NewThread creates a logical thread with a copy of the current descriptor
// table. With multithreading on and a log directory configured, the thread
// traces to its own file there.
func (q *Qiling) NewThread(id int) (*Thread, error) {
	fds := q.Fds.Save()
	th := &Thread{ID: id, fds: append(models.FileDesState(nil), fds...)}
	if q.Config.MultiThread && q.Config.LogDir != "" {
		path := filepath.Join(q.Config.LogDir, fmt.Sprintf("thread_%d.log", id))
		log, closer, err := output.OpenLog(path)
		if err != nil {
			return nil, err
		}
		th.log, th.closer = log, closer
	}
	q.threads = append(q.threads, th)
	return th, nil
}

// SwitchThread makes th the current thread, swapping descriptor tables.
// A nil th returns to the main context.
func (q *Qiling) SwitchThread(th *Thread) {
	if q.thread != nil {
		q.thread.fds = q.Fds.Save()
	} else {
		q.mainFds = q.Fds.Save()
	}
	if th != nil {
		q.Fds.Restore(th.fds)
	} else {
		q.Fds.Restore(q.mainFds)
	}
	q.thread = th
}

func (q *Qiling) CurrentThread() *Thread {
	return q.thread
}

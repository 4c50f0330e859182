// Eqsolve
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package recwatch provides single file watching events via fsnotify.
package recwatch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Event represents a watcher event. These can include errors.
type Event struct {
	Error error
	Body  *fsnotify.Event
}

// Watcher is the struct for the single file watcher. Run Init() on it.
type Watcher struct {
	// Path is the file path that we're watching.
	Path string

	// Opts are the list of options that we are using this with.
	Opts []Option

	options  *watchOptions // computed options
	safename string        // cleaned path
	dirname  string        // parent dir of safename, what fsnotify watches
	watcher  *fsnotify.Watcher
	events   chan Event // one channel for events and err...
	closed   bool       // is the events channel closed?
	mutex    sync.Mutex // lock guarding the channel closing
	wg       sync.WaitGroup
	exit     chan struct{}
}

// NewWatcher creates and initializes a new file watcher.
func NewWatcher(path string, opts ...Option) (*Watcher, error) {
	obj := &Watcher{
		Path: path,
		Opts: opts,
	}
	return obj, obj.Init()
}

// Init starts the file watcher.
func (obj *Watcher) Init() error {
	obj.watcher = nil
	obj.events = make(chan Event)
	obj.exit = make(chan struct{})
	obj.safename = filepath.Clean(obj.Path)
	obj.dirname = filepath.Dir(obj.safename)
	obj.options = &watchOptions{ // default watch options
		debug: false,
		logf: func(format string, v ...interface{}) {
			// noop
		},
	}
	for _, optionFunc := range obj.Opts { // apply the watch options
		optionFunc(obj.options)
	}

	if obj.options.logf == nil {
		return fmt.Errorf("recwatch: logf must not be nil")
	}

	var err error
	obj.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// We watch the parent directory instead of the file itself, because
	// editors usually save by writing a temp file and renaming it over
	// ours, and a watch pinned to the old inode goes quiet after the
	// first save.
	if err := obj.watcher.Add(obj.dirname); err != nil {
		obj.watcher.Close() // don't leak the inotify handle
		obj.watcher = nil
		return err
	}

	obj.wg.Add(1)
	go func() {
		defer obj.wg.Done()
		if err := obj.Watch(); err != nil {
			// we need this mutex, because if we Init and then Close
			// immediately, this can send after closed which panics!
			obj.mutex.Lock()
			if !obj.closed {
				select {
				case obj.events <- Event{Error: err}:
				case <-obj.exit:
					// pass
				}
			}
			obj.mutex.Unlock()
		}
	}()
	return nil
}

// Close shuts down the watcher.
func (obj *Watcher) Close() error {
	var err error
	close(obj.exit) // send exit signal
	obj.wg.Wait()
	if obj.watcher != nil {
		err = obj.watcher.Close()
		obj.watcher = nil
	}
	obj.mutex.Lock()
	obj.closed = true
	close(obj.events)
	obj.mutex.Unlock()
	return err
}

// Events returns a channel of events. These include events for errors.
func (obj *Watcher) Events() chan Event { return obj.events }

// Watch is the main loop. The directory watch sees events for every sibling
// file, so it filters down to the ones about our file and relays those.
func (obj *Watcher) Watch() error {
	if obj.watcher == nil {
		return fmt.Errorf("the watcher is not initialized")
	}

	for {
		select {
		case event, ok := <-obj.watcher.Events:
			if !ok {
				return fmt.Errorf("unexpected close of the events channel")
			}
			if obj.options.debug {
				obj.options.logf("event(%s): %v", event.Name, event.Op)
			}
			if filepath.Clean(event.Name) != obj.safename {
				continue // a sibling file, not ours
			}
			select {
			// exit even when we're blocked on event sending
			case obj.events <- Event{Error: nil, Body: &event}:
			case <-obj.exit:
				return fmt.Errorf("pending event not sent")
			}

		case err, ok := <-obj.watcher.Errors:
			if !ok {
				return fmt.Errorf("unexpected close of the errors channel")
			}
			return fmt.Errorf("unknown watcher error: %v", err)

		case <-obj.exit:
			return nil
		}
	}
}

// Option is a type that can be used to configure the watcher.
type Option func(*watchOptions)

type watchOptions struct {
	debug bool
	logf  func(format string, v ...interface{})
}

// Debug specifies whether we should run in debug mode or not.
func Debug(debug bool) Option {
	return func(wo *watchOptions) {
		wo.debug = debug
	}
}

// Logf passes a logger function that we can use if so desired.
func Logf(logf func(format string, v ...interface{})) Option {
	return func(wo *watchOptions) {
		wo.logf = logf
	}
}

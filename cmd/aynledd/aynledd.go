// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package aynledd provides the RGB LED daemon for the Ayn EC: mode,
// brightness, and per channel intensity control through redis.
package aynledd

import (
	"fmt"
	"net/rpc"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/openhandhelds/aynec/ayn"
	"github.com/openhandhelds/aynec/cmd"
	"github.com/openhandhelds/aynec/lang"
	"github.com/platinasystems/atsock"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"
	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"
)

const Name = "aynledd"

var (
	Vdev *ayn.EcDev

	// VpageByKey maps a published redis field to the LED channel
	// index it reads.
	VpageByKey map[string]int

	WrRegDv  = make(map[string]string)
	WrRegFn  = make(map[string]string)
	WrRegVal = make(map[string]string)
	WrRegRng = make(map[string][]string)

	// wrRegLock guards WrRegVal between the Hset rpc goroutine and
	// the poll loop draining the queue.
	wrRegLock sync.Mutex
)

var ledModeName = map[uint8]string{
	ayn.LedBreath: "breath",
	ayn.LedManual: "manual",
}

var ledModeOfName = map[string]uint8{
	"breath": ayn.LedBreath,
	"manual": ayn.LedManual,
	"0":      ayn.LedBreath,
	"1":      ayn.LedManual,
}

type Command struct {
	Info
	Init func()
	init sync.Once
}

type Info struct {
	mutex sync.Mutex
	rpc   *atsock.RpcServer
	pub   *publisher.Publisher
	stop  chan struct{}
	lasts map[string]string
}

func (*Command) String() string { return Name }

func (*Command) Usage() string { return Name }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "EC RGB LED daemon",
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func (c *Command) Main(...string) error {
	if c.Init != nil {
		c.init.Do(c.Init)
	}
	if Vdev == nil {
		return fmt.Errorf("%s: no device", Name)
	}

	// the EC powers up breathing; take over the channels so manual
	// colors survive the first write
	if err := Vdev.SetLedMode(ayn.LedManual); err != nil {
		return err
	}
	if err := Vdev.SetBrightness(0); err != nil {
		return err
	}

	err := redis.IsReady()
	if err != nil {
		return err
	}

	c.stop = make(chan struct{})
	c.lasts = make(map[string]string)

	if c.pub, err = publisher.New(); err != nil {
		return err
	}

	if c.rpc, err = atsock.NewRpcServer(Name); err != nil {
		return err
	}

	rpc.Register(&c.Info)
	for _, v := range WrRegDv {
		err = redis.Assign(redis.DefaultHash+":"+v+".", Name, "Info")
		if err != nil {
			return err
		}
	}

	t := time.NewTicker(5 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return nil
		case <-t.C:
			c.update()
		}
	}
}

func (c *Command) Close() error {
	close(c.stop)
	return nil
}

func (c *Command) update() error {
	if err := writeRegs(); err != nil {
		return err
	}

	for k, i := range VpageByKey {
		if strings.Contains(k, "led.mode") {
			m, err := Vdev.LedMode()
			if err != nil {
				continue
			}
			sv := ledModeName[m]
			if sv != c.lasts[k] {
				c.pub.Print(k, ": ", sv)
				c.lasts[k] = sv
			}
		}
		if strings.Contains(k, "led.brightness") {
			sv := strconv.Itoa(int(Vdev.Brightness()))
			if sv != c.lasts[k] {
				c.pub.Print(k, ": ", sv)
				c.lasts[k] = sv
			}
		}
		if strings.Contains(k, "intensity") {
			s, err := Vdev.Intensity(i)
			if err != nil {
				continue
			}
			sv := strconv.Itoa(int(s.Intensity))
			if sv != c.lasts[k] {
				c.pub.Print(k, ": ", sv)
				c.lasts[k] = sv
			}
		}
	}
	return nil
}

func writeRegs() error {
	wrRegLock.Lock()
	defer wrRegLock.Unlock()
	for k, v := range WrRegVal {
		switch WrRegFn[k] {
		case "mode":
			if m, found := ledModeOfName[v]; found {
				Vdev.SetLedMode(m)
				if m == ayn.LedManual {
					Vdev.LedRefresh()
				}
			}
		case "brightness":
			d, err := strconv.Atoi(v)
			if err == nil {
				Vdev.SetBrightness(uint8(d))
			}
		case "intensity":
			d, err := strconv.Atoi(v)
			if err == nil {
				if i, found := channelOf(k); found {
					Vdev.SetIntensity(i, uint8(d))
					Vdev.SetBrightness(Vdev.Brightness())
				}
			}
		case "refresh":
			if v == "true" {
				Vdev.LedRefresh()
			}
		}
		delete(WrRegVal, k)
	}
	return nil
}

func channelOf(k string) (int, bool) {
	for i, name := range []string{"red", "green", "blue"} {
		if strings.Contains(k, "."+name+".") {
			return i, true
		}
	}
	return 0, false
}

func (i *Info) Hset(args args.Hset, reply *reply.Hset) error {
	wrRegLock.Lock()
	defer wrRegLock.Unlock()
	_, p := WrRegFn[args.Field]
	if !p {
		return fmt.Errorf("cannot hset: %s", args.Field)
	}
	_, q := WrRegRng[args.Field]
	if !q {
		err := i.set(args.Field, string(args.Value))
		if err == nil {
			*reply = 1
			WrRegVal[args.Field] = string(args.Value)
		}
		return err
	}
	var a [2]int
	var e [2]error
	if len(WrRegRng[args.Field]) == 2 {
		for i, v := range WrRegRng[args.Field] {
			a[i], e[i] = strconv.Atoi(v)
		}
		if e[0] == nil && e[1] == nil {
			val, err := strconv.Atoi(string(args.Value))
			if err != nil {
				return err
			}
			if val >= a[0] && val <= a[1] {
				err := i.set(args.Field, string(args.Value))
				if err == nil {
					*reply = 1
					WrRegVal[args.Field] =
						string(args.Value)
				}
				return err
			}
			return fmt.Errorf("Cannot hset.  Valid range is: %s",
				WrRegRng[args.Field])
		}
	}
	for _, v := range WrRegRng[args.Field] {
		if v == string(args.Value) {
			err := i.set(args.Field, string(args.Value))
			if err == nil {
				*reply = 1
				WrRegVal[args.Field] = string(args.Value)
			}
			return err
		}
	}
	return fmt.Errorf("Cannot hset.  Valid values are: %s",
		WrRegRng[args.Field])
}

func (i *Info) set(key, value string) error {
	i.pub.Print(key, ": ", value)
	return nil
}

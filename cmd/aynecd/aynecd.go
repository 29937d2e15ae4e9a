// Copyright © 2023-2026 the aynec authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package aynecd provides the hardware monitoring daemon for the Ayn EC:
// temperatures, fan tachometer, and fan control through redis.
package aynecd

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

const Name = "aynecd"

var (
	Vdev *ayn.EcDev

	// VpageByKey maps a published redis field to the sensor or curve
	// point index it reads.
	VpageByKey map[string]int

	WrRegDv  = make(map[string]string)
	WrRegFn  = make(map[string]string)
	WrRegVal = make(map[string]string)
	WrRegRng = make(map[string][]string)

	// wrRegLock guards WrRegVal between the Hset rpc goroutine and
	// the poll loop draining the queue.
	wrRegLock sync.Mutex
)

var fanModeName = map[uint8]string{
	ayn.FanAuto:      "auto",
	ayn.FanManual:    "manual",
	ayn.FanUserCurve: "user",
}

var fanModeOfName = map[string]uint8{
	"auto":   ayn.FanAuto,
	"manual": ayn.FanManual,
	"user":   ayn.FanUserCurve,
	"0":      ayn.FanAuto,
	"1":      ayn.FanManual,
	"2":      ayn.FanUserCurve,
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
		lang.EnUS: "EC hardware monitoring daemon",
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
		if strings.Contains(k, "units.mC") {
			v, err := Vdev.Temp(i)
			if err != nil {
				continue
			}
			sv := strconv.FormatInt(v, 10)
			if sv != c.lasts[k] {
				c.pub.Print(k, ": ", sv)
				c.lasts[k] = sv
			}
		}
		if strings.Contains(k, "fan.speed.units.rpm") {
			v, err := Vdev.FanRpm()
			if err != nil {
				continue
			}
			sv := strconv.Itoa(int(v))
			if sv != c.lasts[k] {
				c.pub.Print(k, ": ", sv)
				c.lasts[k] = sv
			}
		}
		if strings.Contains(k, "pwm.duty") {
			v, err := Vdev.FanDuty()
			if err != nil {
				continue
			}
			sv := strconv.Itoa(v)
			if sv != c.lasts[k] {
				c.pub.Print(k, ": ", sv)
				c.lasts[k] = sv
			}
		}
		if strings.Contains(k, "pwm.mode") {
			m, err := Vdev.FanMode()
			if err != nil {
				continue
			}
			sv, found := fanModeName[m]
			if !found {
				sv = strconv.Itoa(int(m))
			}
			if sv != c.lasts[k] {
				c.pub.Print(k, ": ", sv)
				c.lasts[k] = sv
			}
		}
		if strings.Contains(k, "fan.curve.") {
			var v int
			var err error
			if strings.HasSuffix(k, ".duty") {
				v, err = Vdev.CurveDuty(i)
			} else {
				v, err = Vdev.CurveTemp(i)
			}
			if err != nil {
				continue
			}
			sv := strconv.Itoa(v)
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
		case "duty":
			d, err := strconv.Atoi(v)
			if err == nil {
				Vdev.SetFanDuty(d)
			}
		case "mode":
			if m, found := fanModeOfName[v]; found {
				Vdev.SetFanMode(m)
			}
		case "curve.duty":
			var n, d int
			if _, err := fmt.Sscanf(k, "fan.curve.%d.duty",
				&n); err == nil {
				d, err = strconv.Atoi(v)
				if err == nil {
					Vdev.SetCurveDuty(n-1, d)
				}
			}
		case "curve.temp":
			var n, d int
			if _, err := fmt.Sscanf(k, "fan.curve.%d.temp",
				&n); err == nil {
				d, err = strconv.Atoi(v)
				if err == nil {
					Vdev.SetCurveTemp(n-1, d)
				}
			}
		}
		delete(WrRegVal, k)
	}
	return nil
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

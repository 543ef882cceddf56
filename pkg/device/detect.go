package device

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

const (
	EnvCUDAVisibleDevices = "CUDA_VISIBLE_DEVICES"
)

type Prober interface {
	AcceleratorCount(ctx context.Context) (int, error)
}

// NvidiaSMI counts GPUs listed by `nvidia-smi -L`.
type NvidiaSMI struct {
	Path string
}

var _ Prober = NvidiaSMI{}

func (p NvidiaSMI) AcceleratorCount(ctx context.Context) (int, error) {
	bin := p.Path
	if bin == "" {
		bin = "nvidia-smi"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return 0, fmt.Errorf("'%s' is not available: %w", bin, err)
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-L")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("unable to list GPUs: %w", err)
	}
	return countGPULines(stdout.Bytes()), nil
}

func countGPULines(out []byte) int {
	count := 0
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if strings.HasPrefix(strings.TrimSpace(scanner.Text()), "GPU ") {
			count++
		}
	}
	return count
}

// Detect picks CUDA if at least one accelerator is visible to this process.
func Detect(ctx context.Context, prober Prober) Device {
	if v, ok := os.LookupEnv(EnvCUDAVisibleDevices); ok {
		v = strings.TrimSpace(v)
		if v == "" || v == "-1" {
			logger.Debugf(ctx, "%s=%q hides all the accelerators", EnvCUDAVisibleDevices, v)
			return CPU
		}
	}

	count, err := prober.AcceleratorCount(ctx)
	if err != nil {
		logger.Debugf(ctx, "no accelerator detected: %v", err)
		return CPU
	}
	logger.Debugf(ctx, "detected %d accelerator(s)", count)
	if count < 1 {
		return CPU
	}
	return CUDA
}

func Select(ctx context.Context, sel Selection, prober Prober) Device {
	switch sel {
	case SelectionCUDA:
		return CUDA
	case SelectionCPU:
		return CPU
	}
	return Detect(ctx, prober)
}

// DescribeHost returns a one-line summary of the general-purpose processor.
func DescribeHost(ctx context.Context) string {
	var parts []string

	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		logger.Debugf(ctx, "unable to get CPU info: %v", err)
	} else if len(infos) > 0 && infos[0].ModelName != "" {
		parts = append(parts, infos[0].ModelName)
	}

	if count, err := cpu.CountsWithContext(ctx, true); err == nil {
		parts = append(parts, fmt.Sprintf("%d logical cores", count))
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		parts = append(parts, fmt.Sprintf("%d MiB RAM", vm.Total>>20))
	}

	if len(parts) == 0 {
		return "unknown CPU"
	}
	return strings.Join(parts, ", ")
}

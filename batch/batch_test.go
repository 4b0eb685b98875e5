// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package batch

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-prover/quill/strategy"
)

func TestReadBatch(t *testing.T) {
	in := `
% a comment
category LTB.TEST
limit.time.problem.ms 5000
question.answers off
problems/a.p out/a.s
problems/b.p out/b.s
`
	b, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "LTB.TEST", b.Category)
	assert.Equal(t, 5*time.Second, b.ProblemTimeLimit)
	assert.False(t, b.QuestionAnswering)
	require.Len(t, b.Problems, 2)
	assert.Equal(t, "problems/a.p", b.Problems[0].In)
	assert.Equal(t, "out/a.s", b.Problems[0].Out)
}

func TestReadBatchErrors(t *testing.T) {
	_, err := Read(strings.NewReader("category\n"))
	require.Error(t, err)
	_, err = Read(strings.NewReader("limit.time.problem.ms x\n"))
	require.Error(t, err)
	_, err = Read(strings.NewReader("category C\n"))
	require.Error(t, err, "no problems")
}

func TestDriverSolvesBatch(t *testing.T) {
	dir := t.TempDir()
	prob := filepath.Join(dir, "p1.q")
	out := filepath.Join(dir, "p1.out")
	problem := `
axiom a1: p(a)
negated_conjecture g1: ~p(a)
`
	require.NoError(t, os.WriteFile(prob, []byte(problem), 0644))

	spec := "category TEST\nlimit.time.problem.ms 30000\n" + prob + " " + out + "\n"
	b, err := Read(strings.NewReader(spec))
	require.NoError(t, err)

	var sink bytes.Buffer
	d := &Driver{Plan: strategy.DefaultSchedule(), Workers: 2}
	solved, err := d.Run(b, &sink)
	require.NoError(t, err)
	assert.Equal(t, 1, solved)

	// the sentinel reaches both the writer and the output file
	assert.Contains(t, sink.String(), Sentinel+" "+out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "% SZS status Unsatisfiable")
	assert.True(t, strings.HasSuffix(strings.TrimRight(string(data), "\n"),
		Sentinel+" "+out), "output must end with the sentinel")
}

func TestDriverSkipsUnsolved(t *testing.T) {
	dir := t.TempDir()
	prob := filepath.Join(dir, "sat.q")
	out := filepath.Join(dir, "sat.out")
	require.NoError(t, os.WriteFile(prob, []byte("axiom a1: p(a)\n"), 0644))

	spec := "category TEST\n" + prob + " " + out + "\n"
	b, err := Read(strings.NewReader(spec))
	require.NoError(t, err)

	var sink bytes.Buffer
	d := &Driver{Plan: strategy.DefaultSchedule()}
	solved, err := d.Run(b, &sink)
	require.NoError(t, err)
	assert.Zero(t, solved)
	assert.Empty(t, sink.String())
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output file for unsolved problems")
}

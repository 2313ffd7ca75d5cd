package composer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/qpaper/internal/extract"
	"github.com/hyperjump/qpaper/internal/models"
	"github.com/hyperjump/qpaper/internal/paper"
)

// Job is a YAML job file dropped into the inbox. A job that carries question
// paper text (inline or from a file) is assembled as is; any other job is a
// generation request. File references are relative to the job file.
type Job struct {
	models.GenerationRequest `yaml:",inline"`

	Institute string `yaml:"institute,omitempty"`
	Program   string `yaml:"program,omitempty"`
	Duration  string `yaml:"duration,omitempty"`

	TopicsFile        string `yaml:"topics_file,omitempty"`
	InstructionsFile  string `yaml:"instructions_file,omitempty"`
	QuestionPaper     string `yaml:"question_paper,omitempty"`
	QuestionPaperFile string `yaml:"question_paper_file,omitempty"`
	AnswerKey         string `yaml:"answer_key,omitempty"`
	AnswerKeyFile     string `yaml:"answer_key_file,omitempty"`
}

// Supplied reports whether the job brings its own question paper text.
func (j *Job) Supplied() bool {
	return strings.TrimSpace(j.QuestionPaper) != ""
}

// Parameters returns the parameter record of a supplied job.
func (j *Job) Parameters() *paper.Parameters {
	return &paper.Parameters{
		Institute:     j.Institute,
		Subject:       j.Subject,
		CourseCode:    j.CourseCode,
		Semester:      j.Semester,
		ExamType:      j.ExamType,
		TotalMarks:    j.TotalMarks,
		Program:       j.Program,
		Duration:      j.Duration,
		Instructions:  j.Instructions,
		QuestionPaper: j.QuestionPaper,
		AnswerKey:     j.AnswerKey,
	}
}

// LoadJob parses the job file at path and resolves its file references with r.
func LoadJob(path string, r *extract.Reader) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job: %w", err)
	}
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	resolve := func(ref string) string {
		if filepath.IsAbs(ref) {
			return ref
		}
		return filepath.Join(dir, ref)
	}
	if job.TopicsFile != "" {
		topics, err := r.ReadTopics(resolve(job.TopicsFile))
		if err != nil {
			return nil, fmt.Errorf("topics_file: %w", err)
		}
		job.Topics = append(job.Topics, topics...)
	}
	for _, ref := range []struct {
		file   string
		target *string
		name   string
	}{
		{job.InstructionsFile, &job.Instructions, "instructions_file"},
		{job.QuestionPaperFile, &job.QuestionPaper, "question_paper_file"},
		{job.AnswerKeyFile, &job.AnswerKey, "answer_key_file"},
	} {
		if ref.file == "" {
			continue
		}
		text, err := r.ReadFile(resolve(ref.file))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref.name, err)
		}
		*ref.target = text
	}
	return &job, nil
}

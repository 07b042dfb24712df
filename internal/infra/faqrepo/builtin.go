package faqrepo

import (
	"context"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
)

// socialSecurityFAQs is the catalog served when no other source is configured.
var socialSecurityFAQs = []faq.Entry{
	{
		Question: "What is Social Security?",
		Answer:   "Social Security is a social insurance program run by the U.S. government. It provides benefits to retirees, the disabled, and survivors of deceased workers.",
	},
	{
		Question: "How do I apply for Social Security benefits?",
		Answer:   "You can apply for Social Security benefits online, by phone, or in person at your local Social Security office. It's recommended to apply a few months before you want your benefits to start.",
	},
	{
		Question: "When can I retire and get full benefits?",
		Answer:   "Your full retirement age depends on your birth year. For most people currently, it's between 66 and 67 years old. You can start receiving benefits as early as age 62, but they will be reduced.",
	},
	{
		Question: "How can I check my Social Security statement?",
		Answer:   "You can check your Social Security statement online by creating a my Social Security account on the official SSA website. This statement shows your earnings history and estimated future benefits.",
	},
	{
		Question: "What happens if I work while receiving Social Security benefits?",
		Answer:   "If you are under full retirement age and work while receiving benefits, your benefits may be reduced if your earnings exceed certain limits. Once you reach full retirement age, your benefits are not reduced regardless of how much you earn.",
	},
	{
		Question: "Can I get Social Security benefits if I'm disabled?",
		Answer:   "Yes, Social Security Disability Insurance (SSDI) provides benefits to those who have worked long enough and paid Social Security taxes, and who have a medical condition that meets Social Security's definition of disability.",
	},
	{
		Question: "What is Medicare?",
		Answer:   "Medicare is the federal health insurance program for people who are 65 or older, certain younger people with disabilities, and people with End-Stage Renal Disease (permanent kidney failure requiring dialysis or a transplant).",
	},
	{
		Question: "How are Social Security benefits calculated?",
		Answer:   "Your Social Security benefit amount is based on your average indexed monthly earnings (AIME) during your 35 highest earning years. The Social Security Administration uses a formula to calculate your Primary Insurance Amount (PIA).",
	},
	{
		Question: "What is the difference between Social Security and SSI?",
		Answer:   "Social Security (SSDI) is an insurance program for those who have paid into it through taxes. Supplemental Security Income (SSI) is a needs-based program for low-income individuals who are aged, blind, or disabled, regardless of their work history.",
	},
	{
		Question: "How do I report a change of address to Social Security?",
		Answer:   "You can report a change of address online through your my Social Security account, by calling Social Security directly, or by visiting a local office.",
	},
}

// BuiltinSource serves the compiled-in Social Security FAQs.
type BuiltinSource struct{}

// NewBuiltinSource constructs the default source.
func NewBuiltinSource() *BuiltinSource {
	return &BuiltinSource{}
}

// Name implements faq.Source.
func (s *BuiltinSource) Name() string {
	return "builtin"
}

// Load implements faq.Source.
func (s *BuiltinSource) Load(context.Context) ([]faq.Entry, error) {
	out := make([]faq.Entry, len(socialSecurityFAQs))
	copy(out, socialSecurityFAQs)
	return out, nil
}

var _ faq.Source = (*BuiltinSource)(nil)

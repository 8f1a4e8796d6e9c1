package tabkit

// ProcessorOpt is an option for configuring a Processor
type ProcessorOpt func(p *Processor)

// WithLogger sets the processors logger (default: no-op)
func WithLogger(logger Logger) ProcessorOpt {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSentinels replaces the filter values that mean "no constraint on this field" (default: "" and "all")
func WithSentinels(sentinels ...string) ProcessorOpt {
	return func(p *Processor) {
		p.filter.sentinels = sentinels
	}
}

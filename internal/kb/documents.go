package kb

// Document is a disease reference entry for the knowledge base.
type Document struct {
	Content string
	Topic   string
	Urgency string
}

// SeedDocuments returns the built-in disease reference corpus used to
// bootstrap the knowledge base. Each entry covers one condition: symptoms,
// causes, diagnostic tests and treatment plan.
func SeedDocuments() []Document {
	return []Document{
		{
			Content: "DIAGNOSIS: Acute Coronary Syndrome (ACS). PRIMARY SYMPTOMS: Chest pain or pressure, shortness of breath, pain radiating to arm/jaw/back. SECONDARY SYMPTOMS: Nausea, vomiting, cold sweats, dizziness, fatigue, anxiety. CAUSES: Atherosclerosis, smoking, high blood pressure, high cholesterol, diabetes, obesity, sedentary lifestyle, family history, stress, age over 45 for men/55 for women. DIAGNOSTIC TESTS: ECG/EKG, cardiac enzymes (troponin), chest X-ray, coronary angiography, stress test, echocardiogram. TREATMENT PLAN: Immediate aspirin, oxygen therapy, nitroglycerin, beta-blockers, statins, antiplatelet agents, emergency cardiac catheterization or thrombolytic therapy if STEMI confirmed.",
			Topic:   "cardiac_emergency",
			Urgency: "high",
		},
		{
			Content: "DIAGNOSIS: Myocardial Infarction (Heart Attack). PRIMARY SYMPTOMS: Severe chest pain, pressure or squeezing sensation, pain radiating to left arm/jaw/back. SECONDARY SYMPTOMS: Nausea, vomiting, cold sweats, dizziness, fatigue, anxiety, shortness of breath. CAUSES: Complete blockage of coronary artery by blood clot, atherosclerosis, coronary artery spasm, severe emotional stress, extreme physical exertion, underlying heart disease, smoking, hypertension, diabetes. DIAGNOSTIC TESTS: ECG/EKG, cardiac enzymes (troponin), chest X-ray, coronary angiography, echocardiogram. TREATMENT PLAN: Immediate aspirin, oxygen therapy, nitroglycerin, beta-blockers, statins, antiplatelet agents, emergency cardiac catheterization or thrombolytic therapy.",
			Topic:   "cardiac_emergency",
			Urgency: "high",
		},
		{
			Content: "DIAGNOSIS: Tension Headache. PRIMARY SYMPTOMS: Dull, aching head pain, pressure sensation around forehead or back of head. SECONDARY SYMPTOMS: Neck stiffness, shoulder tension, sensitivity to light, fatigue, difficulty concentrating. CAUSES: Muscle tension in neck and scalp, stress, anxiety, depression, poor posture, eye strain, lack of sleep, dehydration, skipping meals, caffeine withdrawal. DIAGNOSTIC TESTS: Physical examination, blood pressure measurement, neurological examination, CT scan or MRI if red flags present. TREATMENT PLAN: Over-the-counter pain relievers (acetaminophen, ibuprofen), stress management, relaxation techniques, physical therapy, preventive medications if chronic.",
			Topic:   "headache",
			Urgency: "low",
		},
		{
			Content: "DIAGNOSIS: Migraine. PRIMARY SYMPTOMS: Severe throbbing headache, usually on one side of head, sensitivity to light and sound. SECONDARY SYMPTOMS: Nausea, vomiting, visual disturbances (aura), dizziness, fatigue. CAUSES: Genetic predisposition, hormonal changes, certain foods (aged cheese, chocolate, caffeine), alcohol, stress, lack of sleep, bright lights, strong smells, weather changes, dehydration, skipping meals. DIAGNOSTIC TESTS: Physical examination, neurological examination, CT scan or MRI to rule out other causes, headache diary. TREATMENT PLAN: Triptans, NSAIDs, antiemetics, preventive medications (beta-blockers, anticonvulsants), lifestyle modifications, avoiding triggers.",
			Topic:   "headache",
			Urgency: "moderate",
		},
		{
			Content: "DIAGNOSIS: Upper Respiratory Tract Infection. PRIMARY SYMPTOMS: Sore throat, nasal congestion, runny nose, cough. SECONDARY SYMPTOMS: Low-grade fever, fatigue, body aches, headache, loss of appetite. CAUSES: Viral infections (rhinovirus, coronavirus, adenovirus, influenza), bacterial infections (group A streptococcus), close contact with infected individuals, poor hand hygiene, weakened immune system, smoking. DIAGNOSTIC TESTS: Physical examination, rapid strep test, throat culture, blood tests (CBC), rapid flu test. TREATMENT PLAN: Rest, hydration, over-the-counter medications (decongestants, cough suppressants), saltwater gargles, fever reducers.",
			Topic:   "respiratory_infection",
			Urgency: "low",
		},
		{
			Content: "DIAGNOSIS: Pneumonia. PRIMARY SYMPTOMS: High fever, productive cough with colored sputum, difficulty breathing, chest pain. SECONDARY SYMPTOMS: Fatigue, loss of appetite, sweating, chills, confusion in elderly. CAUSES: Bacterial infections (Streptococcus pneumoniae, Haemophilus influenzae), viral infections (influenza, RSV), fungal infections, aspiration, smoking, chronic lung disease, weakened immune system, age over 65. DIAGNOSTIC TESTS: Chest X-ray, sputum culture, blood tests (CBC, CRP), pulse oximetry, CT scan if needed. TREATMENT PLAN: Antibiotics, oxygen therapy, rest, hydration, fever reducers, hospitalization if severe.",
			Topic:   "respiratory_infection",
			Urgency: "moderate",
		},
		{
			Content: "DIAGNOSIS: Acute Gastroenteritis. PRIMARY SYMPTOMS: Diarrhea, nausea, vomiting, abdominal cramps. SECONDARY SYMPTOMS: Low-grade fever, loss of appetite, dehydration, fatigue. CAUSES: Viral infections (norovirus, rotavirus, adenovirus), bacterial infections (Salmonella, E. coli, Campylobacter), parasitic infections (Giardia), contaminated food or water, poor hand hygiene, travel to developing countries, recent antibiotic use. DIAGNOSTIC TESTS: Stool culture, blood tests (CBC, electrolytes), rapid tests for specific pathogens. TREATMENT PLAN: Oral rehydration solutions, antiemetics, antidiarrheals, dietary modifications (BRAT diet), rest.",
			Topic:   "acute_gastroenteritis",
			Urgency: "moderate",
		},
		{
			Content: "DIAGNOSIS: Appendicitis. PRIMARY SYMPTOMS: Right lower abdominal pain, nausea, vomiting, loss of appetite. SECONDARY SYMPTOMS: Fever, abdominal tenderness, rebound tenderness, elevated white blood cell count. CAUSES: Blockage of appendix lumen by fecal matter, lymphoid hyperplasia, parasites, tumors, infection, inflammatory bowel disease, trauma, age (most common in 10-30 years). DIAGNOSTIC TESTS: Physical examination, blood tests (CBC), abdominal CT scan or ultrasound, urinalysis. TREATMENT PLAN: Emergency appendectomy, antibiotics, pain management, IV fluids.",
			Topic:   "appendicitis",
			Urgency: "high",
		},
		{
			Content: "DIAGNOSIS: Benign Paroxysmal Positional Vertigo (BPPV). PRIMARY SYMPTOMS: Brief episodes of dizziness triggered by head movements, spinning sensation. SECONDARY SYMPTOMS: Nausea, vomiting, balance problems, anxiety. CAUSES: Dislodged calcium carbonate crystals in inner ear, head trauma, aging, inner ear infections, prolonged bed rest, migraines, vestibular neuritis, osteoporosis, vitamin D deficiency. DIAGNOSTIC TESTS: Dix-Hallpike maneuver, physical examination, vestibular testing, head CT/MRI to rule out other causes. TREATMENT PLAN: Epley maneuver, vestibular rehabilitation exercises, antiemetics, avoiding triggering positions.",
			Topic:   "dizziness",
			Urgency: "low",
		},
		{
			Content: "DIAGNOSIS: Orthostatic Hypotension. PRIMARY SYMPTOMS: Dizziness upon standing, lightheadedness, fainting. SECONDARY SYMPTOMS: Nausea, fatigue, blurred vision, weakness. CAUSES: Dehydration, blood loss, medications (diuretics, beta-blockers, antidepressants), heart problems, endocrine disorders, nervous system disorders, aging, prolonged bed rest, pregnancy, alcohol use, hot weather, large meals. DIAGNOSTIC TESTS: Blood pressure monitoring in different positions, tilt table test, blood tests, ECG. TREATMENT PLAN: Increased salt intake, hydration, compression stockings, medication adjustments, slow position changes.",
			Topic:   "dizziness",
			Urgency: "moderate",
		},
		{
			Content: "DIAGNOSIS: Foodborne Illness. PRIMARY SYMPTOMS: Nausea, vomiting, diarrhea, abdominal cramps. SECONDARY SYMPTOMS: Fever, chills, headache, muscle aches, dehydration. CAUSES: Consumption of contaminated food (undercooked meat, raw eggs, unpasteurized dairy, contaminated produce), bacterial toxins (Staphylococcus aureus, Clostridium botulinum), viral contamination, parasitic infections, improper food handling, cross-contamination. DIAGNOSTIC TESTS: Stool culture, blood tests, rapid antigen tests for specific pathogens. TREATMENT PLAN: Oral rehydration solutions, antiemetics, antidiarrheals, dietary modifications, rest.",
			Topic:   "food_poisoning",
			Urgency: "moderate",
		},
		{
			Content: "DIAGNOSIS: Osteoarthritis. PRIMARY SYMPTOMS: Joint pain, stiffness, reduced range of motion. SECONDARY SYMPTOMS: Joint swelling, crepitus, muscle weakness, fatigue. CAUSES: Aging, joint injury or trauma, repetitive stress on joints, obesity, genetics, joint malalignment, previous joint surgery, occupational factors, sports injuries. DIAGNOSTIC TESTS: X-rays, MRI, blood tests to rule out inflammatory arthritis, joint aspiration. TREATMENT PLAN: Anti-inflammatory medications, physical therapy, weight management, joint protection, corticosteroid injections, surgery for severe cases.",
			Topic:   "joint_pain",
			Urgency: "low",
		},
		{
			Content: "DIAGNOSIS: Rheumatoid Arthritis. PRIMARY SYMPTOMS: Joint pain, stiffness, swelling, symmetrical joint involvement. SECONDARY SYMPTOMS: Fatigue, fever, weight loss, morning stiffness lasting hours. CAUSES: Autoimmune disorder where immune system attacks joint lining, genetic predisposition, environmental triggers (smoking, infections, stress), hormonal factors, age (30-60 years), family history, obesity. DIAGNOSTIC TESTS: Blood tests (rheumatoid factor, anti-CCP), X-rays, MRI, joint aspiration. TREATMENT PLAN: Disease-modifying antirheumatic drugs (DMARDs), biologic agents, anti-inflammatory medications, physical therapy, surgery for severe cases.",
			Topic:   "joint_pain",
			Urgency: "moderate",
		},
	}
}
